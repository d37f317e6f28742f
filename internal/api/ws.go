package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sprite-ai/refmark/internal/history"
	"github.com/sprite-ai/refmark/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // serve listens on loopback unless configured otherwise
	},
}

// WebSocket message types from client.
const (
	wsMsgFold  = "fold"
	wsMsgQuery = "query"
	wsMsgReset = "reset"
)

// WebSocket message types to client.
const (
	wsMsgHello   = "hello"
	wsMsgFolded  = "folded"
	wsMsgHistory = "history"
	wsMsgError   = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsFold is the payload for "fold" messages.
type wsFold struct {
	Entry *model.Entry `json:"entry"`
}

// wsQuery is the payload for "query" messages.
type wsQuery struct {
	Name string `json:"name"`
}

// wsHelloResponse opens every session.
type wsHelloResponse struct {
	SessionID string `json:"session_id"`
}

// wsFoldedResponse confirms a fold or a reset.
type wsFoldedResponse struct {
	CommitID string   `json:"commit_id,omitempty"`
	Entries  int      `json:"entries"`
	Keys     []string `json:"keys"`
}

// wsHistoryResponse answers a query.
type wsHistoryResponse struct {
	Name   string         `json:"name"`
	Events []*model.Event `json:"events"`
}

// foldSession is the state of one WebSocket connection.
type foldSession struct {
	id      string
	chain   *history.Chain
	entries int
	logger  *log.Logger
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	session := &foldSession{
		id:     id,
		chain:  history.New(),
		logger: s.logger.With("session", id),
	}
	session.send(conn, wsMsgHello, wsHelloResponse{SessionID: id})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				session.logger.Warn("websocket read", "err", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			session.sendError(conn, "invalid message format")
			continue
		}

		switch msg.Type {
		case wsMsgFold:
			session.fold(conn, msg.Data)
		case wsMsgQuery:
			session.query(conn, msg.Data)
		case wsMsgReset:
			session.chain = history.New()
			session.entries = 0
			session.send(conn, wsMsgFolded, wsFoldedResponse{Keys: []string{}})
		default:
			session.sendError(conn, "unknown message type: "+msg.Type)
		}
	}
}

func (fs *foldSession) fold(conn *websocket.Conn, data json.RawMessage) {
	var req wsFold
	if err := json.Unmarshal(data, &req); err != nil || req.Entry == nil {
		fs.sendError(conn, "invalid fold data")
		return
	}
	req.Entry.AttachEvents()

	fs.chain.FoldIn(req.Entry)
	fs.entries++
	fs.logger.Debug("folded entry", "commit", req.Entry.CommitID, "keys", fs.chain.Len())

	fs.send(conn, wsMsgFolded, wsFoldedResponse{
		CommitID: req.Entry.CommitID,
		Entries:  fs.entries,
		Keys:     fs.chain.Keys(),
	})
}

func (fs *foldSession) query(conn *websocket.Conn, data json.RawMessage) {
	var req wsQuery
	if err := json.Unmarshal(data, &req); err != nil || req.Name == "" {
		fs.sendError(conn, "invalid query data")
		return
	}

	events := fs.chain.Get(req.Name)
	if events == nil {
		events = []*model.Event{}
	}
	fs.send(conn, wsMsgHistory, wsHistoryResponse{Name: req.Name, Events: events})
}

func (fs *foldSession) send(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		fs.logger.Error("ws marshal", "err", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		fs.logger.Error("ws write", "err", err)
	}
}

func (fs *foldSession) sendError(conn *websocket.Conn, errMsg string) {
	fs.send(conn, wsMsgError, map[string]string{"message": errMsg})
}
