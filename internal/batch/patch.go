package batch

// BatchPatch is a typed partial update against a batch row. The closed set of
// implementations replaces open map payloads so every persisted patch has an
// enumerable shape: scalar fields, the creator-brief group, the AI-boost
// group, and the status change.
type BatchPatch interface {
	// assignments returns the column/value pairs the patch sets. An empty
	// column list means the patch is a no-op.
	assignments() ([]string, []any)
	// Apply merges the patch into the in-memory batch (optimistic local copy).
	Apply(b *Batch)
}

// ScalarPatch updates the plain scalar and content fields of a batch.
type ScalarPatch struct {
	Name          *string
	BatchType     *BatchType
	Idea          *string
	Shotlist      *string
	Brief         *string
	MainMessaging *string
	Learnings     *string
}

func (p ScalarPatch) assignments() ([]string, []any) {
	var cols []string
	var args []any
	if p.Name != nil {
		cols, args = append(cols, "name"), append(args, *p.Name)
	}
	if p.BatchType != nil {
		cols, args = append(cols, "batch_type"), append(args, string(*p.BatchType))
	}
	if p.Idea != nil {
		cols, args = append(cols, "idea"), append(args, *p.Idea)
	}
	if p.Shotlist != nil {
		cols, args = append(cols, "shotlist"), append(args, *p.Shotlist)
	}
	if p.Brief != nil {
		cols, args = append(cols, "brief"), append(args, *p.Brief)
	}
	if p.MainMessaging != nil {
		cols, args = append(cols, "main_messaging"), append(args, *p.MainMessaging)
	}
	if p.Learnings != nil {
		cols, args = append(cols, "learnings"), append(args, *p.Learnings)
	}
	return cols, args
}

// Apply merges set fields into the batch.
func (p ScalarPatch) Apply(b *Batch) {
	if b == nil {
		return
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.BatchType != nil {
		b.BatchType = *p.BatchType
	}
	if p.Idea != nil {
		b.Idea = *p.Idea
	}
	if p.Shotlist != nil {
		b.Shotlist = *p.Shotlist
	}
	if p.Brief != nil {
		b.Brief = *p.Brief
	}
	if p.MainMessaging != nil {
		b.MainMessaging = *p.MainMessaging
	}
	if p.Learnings != nil {
		b.Learnings = *p.Learnings
	}
}

// CreatorBriefPatch updates the creator-brief field group.
type CreatorBriefPatch struct {
	CreatorBrief *string
}

func (p CreatorBriefPatch) assignments() ([]string, []any) {
	if p.CreatorBrief == nil {
		return nil, nil
	}
	return []string{"creator_brief"}, []any{*p.CreatorBrief}
}

// Apply merges the creator brief into the batch.
func (p CreatorBriefPatch) Apply(b *Batch) {
	if b == nil || p.CreatorBrief == nil {
		return
	}
	b.CreatorBrief = *p.CreatorBrief
}

// BoostPatch updates the AI-boost text fields.
type BoostPatch struct {
	BoostHooks *string
	BoostCopy  *string
}

func (p BoostPatch) assignments() ([]string, []any) {
	var cols []string
	var args []any
	if p.BoostHooks != nil {
		cols, args = append(cols, "boost_hooks"), append(args, *p.BoostHooks)
	}
	if p.BoostCopy != nil {
		cols, args = append(cols, "boost_copy"), append(args, *p.BoostCopy)
	}
	return cols, args
}

// Apply merges the boost fields into the batch.
func (p BoostPatch) Apply(b *Batch) {
	if b == nil {
		return
	}
	if p.BoostHooks != nil {
		b.BoostHooks = *p.BoostHooks
	}
	if p.BoostCopy != nil {
		b.BoostCopy = *p.BoostCopy
	}
}

// StatusPatch changes only the status column; SetStatus is the sole
// constructor so every status write goes through enum validation.
type StatusPatch struct {
	status Status
}

func (p StatusPatch) assignments() ([]string, []any) {
	return []string{"status"}, []any{string(p.status)}
}

// Apply sets the status on the batch.
func (p StatusPatch) Apply(b *Batch) {
	if b == nil {
		return
	}
	b.Status = p.status
}

// ItemPatch is a typed partial update against a batch item row.
type ItemPatch struct {
	HookID   *int64
	Notes    *string
	Script   *string
	VideoURL *string
	Status   *ItemStatus
}

func (p ItemPatch) assignments() ([]string, []any) {
	var cols []string
	var args []any
	if p.HookID != nil {
		cols, args = append(cols, "hook_id"), append(args, *p.HookID)
	}
	if p.Notes != nil {
		cols, args = append(cols, "notes"), append(args, *p.Notes)
	}
	if p.Script != nil {
		cols, args = append(cols, "script"), append(args, *p.Script)
	}
	if p.VideoURL != nil {
		cols, args = append(cols, "video_url"), append(args, *p.VideoURL)
	}
	if p.Status != nil {
		cols, args = append(cols, "status"), append(args, string(*p.Status))
	}
	return cols, args
}

// Apply merges set fields into the item.
func (p ItemPatch) Apply(item *BatchItem) {
	if item == nil {
		return
	}
	if p.HookID != nil {
		item.HookID = p.HookID
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if p.Script != nil {
		item.Script = *p.Script
	}
	if p.VideoURL != nil {
		item.VideoURL = *p.VideoURL
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
}
