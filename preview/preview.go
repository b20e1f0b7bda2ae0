// Package preview serves a message's shares and their overlay over HTTP so
// they can be inspected in a browser without printing transparencies.
package preview

import (
	"bytes"
	"image/png"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"github.com/tmpim/veil"
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 5 * time.Second,
}

// Control is a client-to-server websocket message.
type Control struct {
	Action string `json:"action"`
}

// Event is a server-to-client websocket message.
type Event struct {
	Event string `json:"event"`
}

// Server holds one message bitmap and the current encode of it. Reroll
// replaces the encode with fresh randomness; the message itself never
// changes, which is exactly what makes watching the secret share churn
// while the overlay stays legible a useful demonstration.
type Server struct {
	mutex sync.Mutex
	msg   *veil.Bitmap
	opts  veil.Options

	secret  *veil.Bitmap
	cipher  *veil.Bitmap
	overlay *veil.Bitmap
}

// NewServer encodes the message once and returns a server ready to run.
func NewServer(msg *veil.Bitmap, opts veil.Options) (*Server, error) {
	s := &Server{msg: msg, opts: opts}
	if err := s.Reroll(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reroll re-encodes the message with fresh randomness.
func (s *Server) Reroll() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	secret, cipher, err := veil.Encode(s.msg, s.opts)
	if err != nil {
		return err
	}
	ov, err := veil.Overlay(secret, cipher)
	if err != nil {
		return err
	}
	s.secret, s.cipher, s.overlay = secret, cipher, ov
	return nil
}

// Handler returns the HTTP handler serving the preview routes.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())

	e.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, indexPage)
	})
	e.GET("/prepared.png", s.imageHandler(func() *veil.Bitmap { return s.msg }))
	e.GET("/secret.png", s.imageHandler(func() *veil.Bitmap { return s.secret }))
	e.GET("/ciphered.png", s.imageHandler(func() *veil.Bitmap { return s.cipher }))
	e.GET("/overlay.png", s.imageHandler(func() *veil.Bitmap { return s.overlay }))
	e.GET("/api/client", s.handleClient)

	return e
}

// Start runs the preview server on the given address.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return srv.ListenAndServe()
}

func (s *Server) imageHandler(bitmap func() *veil.Bitmap) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mutex.Lock()
		img := bitmap()
		var buf bytes.Buffer
		err := png.Encode(&buf, img)
		s.mutex.Unlock()
		if err != nil {
			return err
		}

		c.Response().Header().Set("Cache-Control", "no-store")
		return c.Blob(http.StatusOK, "image/png", buf.Bytes())
	}
}

func (s *Server) handleClient(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	for {
		var control Control
		if err := ws.ReadJSON(&control); err != nil {
			return nil
		}

		switch control.Action {
		case "reroll":
			if err := s.Reroll(); err != nil {
				log.Println("veil preview: reroll failed:", err)
				return nil
			}
			if err := ws.WriteJSON(Event{Event: "updated"}); err != nil {
				return nil
			}
		default:
			log.Println("veil preview: unknown action:", control.Action)
		}
	}
}
