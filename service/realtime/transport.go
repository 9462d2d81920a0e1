package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const writeDeadline = 5 * time.Second

// Transport is the minimal surface the ConnManager needs from a duplex
// channel. Tests substitute fakes; production uses the gorilla dialer.
type Transport interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens one Transport. The bearer token rides the handshake so the
// server can associate the channel with the session.
type Dialer func(ctx context.Context, url, bearer string) (Transport, error)

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) ReadMessage() ([]byte, error) {
	_, data, err := t.conn.ReadMessage()
	return data, err
}

func (t *wsTransport) WriteJSON(v any) error {
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return t.conn.WriteJSON(v)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}

// DialWebsocket is the production Dialer.
func DialWebsocket(ctx context.Context, url, bearer string) (Transport, error) {
	hdr := http.Header{}
	if bearer != "" {
		hdr.Set("Authorization", "Bearer "+bearer)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, hdr)
	if err != nil {
		return nil, errors.Wrap(err, "dial websocket")
	}
	return &wsTransport{conn: conn}, nil
}
