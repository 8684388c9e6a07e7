// Package ws serves the module over HTTP: a frame stream, a text control
// channel and a diagnostics stream, all on gorilla websockets.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-ledmatrix/internal/app"
	"github.com/coreman2200/funtimes-ledmatrix/internal/config"
	diag "github.com/coreman2200/funtimes-ledmatrix/internal/diagnostics"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

const (
	writeWait = 200 * time.Millisecond
	// sendQueue is how many messages a streaming client may fall behind
	// before new ones are dropped for it.
	sendQueue = 4
)

// client serializes writes; gorilla allows one writer per connection.
// Streamed messages go through out and are written by pump, so a slow peer
// never holds up the frame loop.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	out  chan []byte
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn, out: make(chan []byte, sendQueue), done: make(chan struct{})}
}

// enqueue queues b without blocking and reports whether it was accepted.
func (c *client) enqueue(b []byte) bool {
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

func (c *client) pump(log zerolog.Logger) {
	for {
		select {
		case <-c.done:
			return
		case b := <-c.out:
			if err := c.send(b); err != nil {
				log.Debug().Err(err).Msg("write")
				// drain sees the closed conn and unregisters the client
				c.conn.Close()
				return
			}
		}
	}
}

func (c *client) send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

type Server struct {
	Core          *app.Core
	CurrentDriver string

	// ConfigPath and Config, when set, persist settings changed over
	// /control.
	ConfigPath string
	Config     *config.Config

	log       zerolog.Logger
	up        websocket.Upgrader
	startTime time.Time

	mu          sync.RWMutex
	clients     map[*client]bool
	diagClients map[*client]bool
}

func NewServer(core *app.Core, log zerolog.Logger) *Server {
	s := &Server{
		Core:        core,
		log:         log.With().Str("component", "ws").Logger(),
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
	}
	core.OnFrame(s.broadcastFrame)
	core.SetDiag(s.PushDiag)
	return s
}

// Routes mounts the endpoints.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
}

type topology struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Driver string `json:"driver"`
}

type frameMsg struct {
	T          int64  `json:"t"`
	FrameID    uint64 `json:"frame_id"`
	Brightness uint8  `json:"brightness"`
	// Grid is column-major, base64 in JSON.
	Grid []byte `json:"grid"`
}

type controlReply struct {
	OK    bool   `json:"ok"`
	Name  string `json:"name,omitempty"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	b, _ := json.Marshal(topology{Width: layout.Width, Height: layout.Height, Driver: s.CurrentDriver})
	if err := c.send(b); err != nil {
		conn.Close()
		return
	}
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
	go c.pump(s.log)
	go s.drain(c, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	s.mu.Lock()
	s.diagClients[c] = true
	s.mu.Unlock()
	go c.pump(s.log)
	go s.drain(c, s.diagClients)
}

// drain discards reads until the peer goes away, then unregisters it.
func (s *Server) drain(c *client, set map[*client]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, c)
		s.mu.Unlock()
		close(c.done)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// HandleControlWS runs each text message as a control command line and
// answers with a JSON reply.
func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := newClient(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		line := string(data)
		reply, err := s.Core.Command(line)
		out := controlReply{OK: err == nil, Name: reply.Name, Value: reply.Value}
		if err != nil {
			out.Error = err.Error()
			s.log.Debug().Err(err).Str("line", line).Msg("control")
		} else {
			s.saveConfig()
		}
		b, _ := json.Marshal(out)
		if err := c.send(b); err != nil {
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.Core.State.Snapshot()
	playing, _ := s.Core.Playing()
	resp := map[string]any{
		"frame_id": snap.FrameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"count":    layout.Count,
		"driver":   s.CurrentDriver,
		"playlist": playing,
		"state":    snap,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// saveConfig writes the persistent settings back to the config file.
func (s *Server) saveConfig() {
	if s.ConfigPath == "" || s.Config == nil {
		return
	}
	snap := s.Core.State.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := *s.Config
	cfg.Brightness = int(snap.Brightness)
	cfg.FPS = snap.FPS
	cfg.PWMFreqHz = snap.PWMFreqHz
	cfg.Debug = snap.Debug
	cfg.Animate = snap.Animate
	cfg.Side = snap.Side
	if cfg == *s.Config {
		return
	}
	if err := config.Save(s.ConfigPath, &cfg); err != nil {
		s.log.Warn().Err(err).Str("path", s.ConfigPath).Msg("save config")
		return
	}
	*s.Config = cfg
}

func (s *Server) broadcastFrame(f matrix.Frame) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.clients) == 0 {
		return
	}
	b, _ := json.Marshal(frameMsg{T: time.Now().UnixNano(), FrameID: f.ID, Brightness: f.Brightness, Grid: f.Grid.Bytes()})
	for c := range s.clients {
		if !c.enqueue(b) {
			s.log.Debug().Uint64("frame_id", f.ID).Msg("client behind; frame dropped")
		}
	}
}

// PushDiag sends d to every /diag client. It is a diagnostics.Sink.
func (s *Server) PushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.diagClients {
		c.enqueue(b)
	}
}
