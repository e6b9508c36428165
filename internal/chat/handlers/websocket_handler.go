package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"messaging_service/internal/chat/app"
	"messaging_service/internal/chat/domain"
	"messaging_service/pkg/logger"
	"messaging_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// PingInterval server ping period on idle sockets
const PingInterval = 10 * time.Minute

var errUnknownAction = errors.New("unknown action")

// Subscriber delivers the push events addressed to one user
type Subscriber interface {
	Subscribe(ctx context.Context, userID uint, handler func(domain.Event)) error
}

// WebsocketHandler forwards push events and accepts chat actions over one socket
type WebsocketHandler struct {
	messageUC      *app.MessageUseCase
	readPositionUC *app.ReadPositionUseCase
	unreadUC       *app.UnreadUseCase
	subscriber     Subscriber
}

// NewWebsocketHandler create WebsocketHandler, subscriber may be nil
func NewWebsocketHandler(
	messageUC *app.MessageUseCase,
	readPositionUC *app.ReadPositionUseCase,
	unreadUC *app.UnreadUseCase,
	subscriber Subscriber,
) *WebsocketHandler {
	return &WebsocketHandler{
		messageUC:      messageUC,
		readPositionUC: readPositionUC,
		unreadUC:       unreadUC,
		subscriber:     subscriber,
	}
}

// wsConn serialises writes, the subscription goroutine and the read loop share the socket
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) write(mt int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(mt, data)
}

// HandleConnection 是 WebSocket 連線的進入點
func (h *WebsocketHandler) HandleConnection(conn *websocket.Conn) {
	userID := parseUserID(conn.Locals(middlewares.TokenMemberID))
	ws := &wsConn{conn: conn}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(PingInterval)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
		logger.Log.Info("websocket close", zap.Uint("userID", userID))
	}()

	if userID == 0 {
		h.sendError(ws, domain.ErrAuthenticationRequired.Error())
		return
	}

	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Debug("websocket closed by client", zap.Int("code", code), zap.String("addr", conn.RemoteAddr().String()))
		return nil
	})
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("received pong", zap.Uint("userID", userID))
		return nil
	})

	//訂閱自己的推播
	if h.subscriber != nil {
		err := h.subscriber.Subscribe(ctx, userID, func(event domain.Event) {
			h.sendResponse(ws, domain.WSResponse{
				Action:  string(domain.NotifyEvent),
				Success: true,
				Payload: map[string]interface{}{"event": event},
			})
		})
		if err != nil {
			logger.Log.Error("websocket subscribe", zap.Uint("userID", userID), zap.Error(err))
			h.sendError(ws, "push subscription unavailable")
		}
	}

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := ws.write(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Warn("ping error", zap.Uint("userID", userID), zap.Error(err))
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Debug("connection closed", zap.Uint("userID", userID))
			} else {
				logger.Log.Warn("websocket read error", zap.Uint("userID", userID), zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			h.sendError(ws, "unsupported message type")
			continue
		}
		h.sendResponse(ws, h.Dispatch(ctx, userID, message))
	}
}

// Dispatch run one text frame as a chat action
func (h *WebsocketHandler) Dispatch(ctx context.Context, userID uint, msg []byte) domain.WSResponse {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return domain.WSResponse{Action: "error", Error: "invalid request"}
	}

	resp := domain.WSResponse{Action: req.Action, Payload: map[string]interface{}{}}
	var err error
	switch domain.Action(req.Action) {
	case domain.SendMessage:
		var m *domain.Message
		m, err = h.messageUC.CreateMessage(ctx, userID, req.Type, req.Data, req.ChatID)
		if err == nil {
			resp.Payload["message"] = m
		}

	case domain.ReadMessage:
		var rp *domain.ReadPosition
		rp, err = h.readPositionUC.UpdateReadPosition(ctx, userID, req.MessageID)
		if err == nil {
			resp.Payload["read_position"] = rp
		}

	case domain.GetUnread:
		var msgs []domain.Message
		msgs, err = h.unreadUC.GetUnreadMessages(ctx, userID)
		var aggErr *domain.AggregationError
		if errors.As(err, &aggErr) {
			resp.Payload["failed_chats"] = aggErr.ChatIDs()
			err = nil
		}
		if err == nil {
			resp.Payload["messages"] = msgs
		}

	default:
		err = errUnknownAction
	}

	if err != nil {
		logger.Log.Warn("websocket action failed", zap.Uint("userID", userID), zap.String("action", req.Action), zap.Error(err))
		resp.Error = publicMessage(err)
		return resp
	}
	resp.Success = true
	return resp
}

// publicMessage hide store errors from clients
func publicMessage(err error) string {
	var nf *domain.NotFoundError
	switch {
	case errors.Is(err, domain.ErrAuthenticationRequired),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInvalidContent),
		errors.Is(err, errUnknownAction),
		errors.As(err, &nf):
		return err.Error()
	}
	return "internal error"
}

func (h *WebsocketHandler) sendResponse(ws *wsConn, resp domain.WSResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		logger.Log.Error("marshal websocket response", zap.Error(err))
		return
	}
	if err := ws.write(websocket.TextMessage, b); err != nil {
		logger.Log.Warn("write message error", zap.Error(err))
	}
}

func (h *WebsocketHandler) sendError(ws *wsConn, msg string) {
	h.sendResponse(ws, domain.WSResponse{Action: "error", Error: msg})
}
