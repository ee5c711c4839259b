// ABOUTME: WebSocket JSON-RPC client for the resume server
// ABOUTME: Matches responses to calls by id and implements the resume, upload and user collaborators

package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	rpcerrors "github.com/harper/resumedeck/internal/errors"
	"github.com/harper/resumedeck/internal/jsonrpc"
	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/protocol"
)

var (
	ErrNotConnected = errors.New("not connected")
	ErrClosed       = errors.New("connection closed")
)

// RPCError is a server-side failure with the structured details decoded.
type RPCError struct {
	Code    int
	Message string
	Data    rpcerrors.ErrorData
}

func (e *RPCError) Error() string {
	if e.Data.Explanation != "" {
		return e.Data.Explanation
	}
	return e.Message
}

func newRPCError(e *jsonrpc.Error) *RPCError {
	out := &RPCError{Code: e.Code, Message: e.Message}
	if data, ok := rpcerrors.Decode(e); ok {
		out.Data = data
	}
	return out
}

type RPCClient struct {
	url     string
	timeout time.Duration
	log     logger.Logger

	mu      sync.RWMutex
	conn    *websocket.Conn
	closed  bool
	done    chan struct{}
	pending map[string]chan *jsonrpc.Response

	outgoing  chan []byte
	errors    chan error
	messageID uint64
}

// NewRPCClient builds an unconnected client. A zero timeout means 30s.
func NewRPCClient(url string, timeout time.Duration) *RPCClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RPCClient{
		url:      url,
		timeout:  timeout,
		log:      logger.Named("rpc"),
		pending:  make(map[string]chan *jsonrpc.Response),
		outgoing: make(chan []byte, 100),
		errors:   make(chan error, 10),
	}
}

func (c *RPCClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.closed {
		return fmt.Errorf("already connected")
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.url, nil) //nolint:bodyclose // websocket connection, not HTTP response
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	c.conn = conn
	c.closed = false
	c.done = make(chan struct{})

	go c.readLoop(conn, c.done)
	go c.writeLoop(conn, c.done)

	c.log.Info("connected to %s", c.url)
	return nil
}

func (c *RPCClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.closed
}

// Errors reports transport failures. The connection is unusable afterwards.
func (c *RPCClient) Errors() <-chan error {
	return c.errors
}

func (c *RPCClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdownLocked()
}

func (c *RPCClient) shutdownLocked() error {
	if c.closed || c.conn == nil {
		c.closed = true
		return nil
	}
	c.closed = true
	close(c.done)
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	return c.conn.Close()
}

func (c *RPCClient) fail(err error) {
	select {
	case c.errors <- err:
	default:
	}
	c.mu.Lock()
	_ = c.shutdownLocked()
	c.mu.Unlock()
}

func (c *RPCClient) readLoop(conn *websocket.Conn, done chan struct{}) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
			default:
				c.fail(fmt.Errorf("read: %w", err))
			}
			return
		}

		var resp jsonrpc.Response
		if err := json.Unmarshal(msg, &resp); err != nil {
			c.log.Warn("skipping malformed message: %v", err)
			continue
		}
		if resp.ID == nil {
			continue
		}
		key := string(*resp.ID)

		c.mu.Lock()
		ch, ok := c.pending[key]
		if ok {
			delete(c.pending, key)
		}
		c.mu.Unlock()

		if !ok {
			c.log.Debug("response for unknown id %s", key)
			continue
		}
		ch <- &resp
	}
}

func (c *RPCClient) writeLoop(conn *websocket.Conn, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-c.outgoing:
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.fail(fmt.Errorf("write: %w", err))
				return
			}
		}
	}
}

// Call sends one request and decodes the result into out.
func (c *RPCClient) Call(ctx context.Context, method string, params, out interface{}) error {
	id := atomic.AddUint64(&c.messageID, 1)
	req, err := jsonrpc.NewRequest(id, method, params)
	if err != nil {
		return err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	key := strconv.FormatUint(id, 10)
	ch := make(chan *jsonrpc.Response, 1)

	c.mu.Lock()
	if c.conn == nil || c.closed {
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.pending[key] = ch
	done := c.done
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	select {
	case c.outgoing <- data:
	case <-done:
		return ErrClosed
	case <-ctx.Done():
		forget()
		return fmt.Errorf("%s: send: %w", method, ctx.Err())
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if resp.Error != nil {
			return newRPCError(resp.Error)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	case <-ctx.Done():
		forget()
		return fmt.Errorf("%s: %w", method, ctx.Err())
	}
}

func fromWire(r protocol.Resume) Resume {
	return Resume{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		FileURL:   r.FileURL,
		IsPrimary: r.IsPrimary,
	}
}

func userFromWire(u protocol.User) User {
	return User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
}

func (c *RPCClient) ListResumes(ctx context.Context, userID string) ([]Resume, error) {
	var res protocol.ListResumesResult
	if err := c.Call(ctx, protocol.MethodListResumes, protocol.ListResumesParams{UserID: userID}, &res); err != nil {
		return nil, err
	}
	out := make([]Resume, 0, len(res.Resumes))
	for _, r := range res.Resumes {
		out = append(out, fromWire(r))
	}
	return out, nil
}

func (c *RPCClient) SetPrimary(ctx context.Context, resumeID, userID string) error {
	var res protocol.SuccessResult
	if err := c.Call(ctx, protocol.MethodSetPrimary, protocol.ResumeParams{ResumeID: resumeID, UserID: userID}, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("set primary %s: rejected", resumeID)
	}
	return nil
}

func (c *RPCClient) DeleteResume(ctx context.Context, resumeID, userID string) error {
	var res protocol.SuccessResult
	if err := c.Call(ctx, protocol.MethodDeleteResume, protocol.ResumeParams{ResumeID: resumeID, UserID: userID}, &res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("delete %s: rejected", resumeID)
	}
	return nil
}

func (c *RPCClient) UploadResume(ctx context.Context, userID, fileName string, data []byte, jobDescription string) (Resume, error) {
	params := protocol.UploadParams{
		UserID:         userID,
		FileName:       fileName,
		JobDescription: jobDescription,
		ContentBase64:  base64.StdEncoding.EncodeToString(data),
	}
	var res protocol.UploadResult
	if err := c.Call(ctx, protocol.MethodUpload, params, &res); err != nil {
		return Resume{}, err
	}
	return fromWire(res.Resume), nil
}

func (c *RPCClient) SignIn(ctx context.Context, email, displayName, avatarURL string) (User, error) {
	var res protocol.UserResult
	params := protocol.SignInParams{Email: email, DisplayName: displayName, AvatarURL: avatarURL}
	if err := c.Call(ctx, protocol.MethodSignIn, params, &res); err != nil {
		return User{}, err
	}
	return userFromWire(res.User), nil
}

func (c *RPCClient) GetUser(ctx context.Context, userID string) (User, error) {
	var res protocol.UserResult
	if err := c.Call(ctx, protocol.MethodGetUser, protocol.GetUserParams{UserID: userID}, &res); err != nil {
		return User{}, err
	}
	return userFromWire(res.User), nil
}
