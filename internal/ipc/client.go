package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Stop requests the daemon to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Reelflow.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Reelflow.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Board retrieves the full kanban view.
func (c *Client) Board() (*BoardResponse, error) {
	var resp BoardResponse
	if err := c.client.Call("Reelflow.Board", BoardRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchList returns batches optionally filtered by statuses.
func (c *Client) BatchList(statuses []string) (*BatchListResponse, error) {
	var resp BatchListResponse
	req := BatchListRequest{Statuses: statuses}
	if err := c.client.Call("Reelflow.BatchList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchDescribe returns details for a single batch.
func (c *Client) BatchDescribe(id int64) (*BatchDescribeResponse, error) {
	var resp BatchDescribeResponse
	req := BatchDescribeRequest{ID: id}
	if err := c.client.Call("Reelflow.BatchDescribe", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchCreate makes a new batch in the first column.
func (c *Client) BatchCreate(name, batchType string) (*BatchCreateResponse, error) {
	var resp BatchCreateResponse
	req := BatchCreateRequest{Name: name, BatchType: batchType}
	if err := c.client.Call("Reelflow.BatchCreate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchMove relocates a batch on the board.
func (c *Client) BatchMove(id int64, to string) (*BatchMoveResponse, error) {
	var resp BatchMoveResponse
	req := BatchMoveRequest{ID: id, To: to}
	if err := c.client.Call("Reelflow.BatchMove", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchTargets returns the legal drop columns for a batch.
func (c *Client) BatchTargets(id int64) (*BatchTargetsResponse, error) {
	var resp BatchTargetsResponse
	req := BatchTargetsRequest{ID: id}
	if err := c.client.Call("Reelflow.BatchTargets", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchDelete removes a batch and its items.
func (c *Client) BatchDelete(id int64) (*BatchDeleteResponse, error) {
	var resp BatchDeleteResponse
	req := BatchDeleteRequest{ID: id}
	if err := c.client.Call("Reelflow.BatchDelete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FieldSet records a debounced edit to one autosaved batch field.
func (c *Client) FieldSet(id int64, field, value string) (*FieldSetResponse, error) {
	var resp FieldSetResponse
	req := FieldSetRequest{ID: id, Field: field, Value: value}
	if err := c.client.Call("Reelflow.FieldSet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemAdd creates an empty variation under a batch.
func (c *Client) ItemAdd(batchID int64) (*ItemAddResponse, error) {
	var resp ItemAddResponse
	req := ItemAddRequest{BatchID: batchID}
	if err := c.client.Call("Reelflow.ItemAdd", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemFieldSet records a debounced edit to one autosaved item field.
func (c *Client) ItemFieldSet(batchID, itemID int64, field, value string) (*ItemFieldSetResponse, error) {
	var resp ItemFieldSetResponse
	req := ItemFieldSetRequest{BatchID: batchID, ItemID: itemID, Field: field, Value: value}
	if err := c.client.Call("Reelflow.ItemFieldSet", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemRemove deletes one variation.
func (c *Client) ItemRemove(batchID, itemID int64) (*ItemRemoveResponse, error) {
	var resp ItemRemoveResponse
	req := ItemRemoveRequest{BatchID: batchID, ItemID: itemID}
	if err := c.client.Call("Reelflow.ItemRemove", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compose asks the daemon to generate copy for one batch field.
func (c *Client) Compose(batchID int64, target string) (*ComposeResponse, error) {
	var resp ComposeResponse
	req := ComposeRequest{BatchID: batchID, Target: target}
	if err := c.client.Call("Reelflow.Compose", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionClose flushes and tears down a batch editing session.
func (c *Client) SessionClose(batchID int64) (*SessionCloseResponse, error) {
	var resp SessionCloseResponse
	req := SessionCloseRequest{BatchID: batchID}
	if err := c.client.Call("Reelflow.SessionClose", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
