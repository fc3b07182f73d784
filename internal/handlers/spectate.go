package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-remote/internal/config"
	"github.com/vancomm/minesweeper-remote/internal/hub"
	"github.com/vancomm/minesweeper-remote/internal/middleware"
	"github.com/vancomm/minesweeper-remote/internal/mines"
	"github.com/vancomm/minesweeper-remote/internal/repository"
)

var ErrQueueFull = errors.New("action queue is full")

const writeWait = 5 * time.Second

type RecordLister interface {
	ListRecords(ctx context.Context, filter repository.RecordFilter) ([]repository.Record, error)
}

// SpectateHandler serves the running game to browsers and accepts
// actions from them as a second remote.
type SpectateHandler struct {
	log     *logrus.Logger
	hub     *hub.Hub
	actions chan<- mines.Action
	records RecordLister
	ws      *config.WebSocket
}

// NewSpectateHandler builds the handler. records may be nil, in which case
// /records answers 404.
func NewSpectateHandler(
	log *logrus.Logger,
	h *hub.Hub,
	actions chan<- mines.Action,
	records RecordLister,
	ws *config.WebSocket,
) *SpectateHandler {
	return &SpectateHandler{
		log:     log,
		hub:     h,
		actions: actions,
		records: records,
		ws:      ws,
	}
}

func (s *SpectateHandler) Routes(allowedOrigins []string) http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("GET /state", s.State)
	router.HandleFunc("POST /action", s.Action)
	router.HandleFunc("GET /records", s.Records)
	router.HandleFunc("/connect", s.Connect)

	return middleware.Wrap(
		router,
		middleware.Cors(allowedOrigins),
		middleware.Logging(s.log),
	)
}

func (s *SpectateHandler) enqueue(a mines.Action) error {
	select {
	case s.actions <- a:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *SpectateHandler) State(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, s.log, s.hub.Latest())
}

func (s *SpectateHandler) Action(w http.ResponseWriter, r *http.Request) {
	action, err := ParseActionDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, s.log, http.StatusBadRequest, err)
		return
	}
	if err := s.enqueue(action); err != nil {
		sendErrorOrLog(w, s.log, http.StatusServiceUnavailable, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *SpectateHandler) Records(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	filter, err := ParseRecordFilter(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, s.log, http.StatusBadRequest, err)
		return
	}
	records, err := s.records.ListRecords(r.Context(), filter)
	if err != nil {
		s.log.WithError(err).Error("unable to list records")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []repository.Record{}
	}
	sendJSONOrLog(w, s.log, records)
}

// Connect upgrades to a websocket that receives every published snapshot.
// Text messages hold newline separated action names.
func (s *SpectateHandler) Connect(w http.ResponseWriter, r *http.Request) {
	c, err := s.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade")
		return
	}
	defer c.Close()

	snapshots, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.readActions(c)
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case snap := <-snapshots:
			c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteJSON(snap); err != nil {
				s.log.WithError(err).Debug("write")
				return
			}
		}
	}
}

func (s *SpectateHandler) readActions(c *websocket.Conn) {
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Debug("read")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}
		text := strings.TrimSpace(string(message))
		for _, name := range byPiece(text, "\n") {
			action, err := mines.ParseAction(name)
			if err != nil {
				s.log.WithError(err).Debug("command")
				continue
			}
			if action == mines.NoAction {
				continue
			}
			if err := s.enqueue(action); err != nil {
				s.log.WithField("action", action).Warn(err)
			}
		}
	}
}
