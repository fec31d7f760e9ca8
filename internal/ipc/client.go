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

// Start requests the daemon to start processing.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Scribe.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Scribe.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Scribe.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MeetingList returns one page of meetings with resolved bot statuses.
func (c *Client) MeetingList(req MeetingListRequest) (*MeetingListResponse, error) {
	var resp MeetingListResponse
	if err := c.client.Call("Scribe.MeetingList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionList returns sessions optionally filtered by statuses.
func (c *Client) SessionList(statuses []string) (*SessionListResponse, error) {
	var resp SessionListResponse
	req := SessionListRequest{Statuses: statuses}
	if err := c.client.Call("Scribe.SessionList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionDescribe returns details for a single session.
func (c *Client) SessionDescribe(id string) (*SessionDescribeResponse, error) {
	var resp SessionDescribeResponse
	req := SessionDescribeRequest{ID: id}
	if err := c.client.Call("Scribe.SessionDescribe", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BotSchedule asks for a bot on a calendar event.
func (c *Client) BotSchedule(req BotScheduleRequest) (*BotScheduleResponse, error) {
	var resp BotScheduleResponse
	if err := c.client.Call("Scribe.BotSchedule", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BotUpdate mutates editable fields of a session.
func (c *Client) BotUpdate(req BotUpdateRequest) (*BotUpdateResponse, error) {
	var resp BotUpdateResponse
	if err := c.client.Call("Scribe.BotUpdate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BotRemove removes bots from the given sessions.
func (c *Client) BotRemove(ids []string) (*BotRemoveResponse, error) {
	var resp BotRemoveResponse
	req := BotRemoveRequest{IDs: ids}
	if err := c.client.Call("Scribe.BotRemove", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionsClearCompleted removes completed sessions.
func (c *Client) SessionsClearCompleted() (*SessionsClearResponse, error) {
	var resp SessionsClearResponse
	if err := c.client.Call("Scribe.SessionsClearCompleted", SessionsClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionsClearFailed removes failed sessions.
func (c *Client) SessionsClearFailed() (*SessionsClearResponse, error) {
	var resp SessionsClearResponse
	if err := c.client.Call("Scribe.SessionsClearFailed", SessionsClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionsHealth returns aggregate session diagnostics.
func (c *Client) SessionsHealth() (*SessionsHealthResponse, error) {
	var resp SessionsHealthResponse
	if err := c.client.Call("Scribe.SessionsHealth", SessionsHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Scribe.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Scribe.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
