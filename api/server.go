// Package api serves a storyboard and its preview frames over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/Okorin/osu-sbgen/command"
	"github.com/Okorin/osu-sbgen/preview"
	"github.com/Okorin/osu-sbgen/storyboard"
)

// FrameInterval is the delay between frames on the preview stream.
const FrameInterval = 33 * time.Millisecond

// Api renders the storyboard on every request; sb must not change while
// it is served.
type Api struct {
	sb       *storyboard.Storyboard
	interval time.Duration
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

// NewApi creates the routes for sb. A non-empty clientDir is served under
// /app.
func NewApi(sb *storyboard.Storyboard, clientDir string) *Api {
	a := new(Api)
	a.sb = sb
	a.interval = FrameInterval
	a.upgrader = websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	r.GET("/healthz", a.health)
	r.GET("/storyboard", a.getStoryboard)
	r.GET("/storyboard.osb", a.getOSB)
	r.GET("/elements", a.getElements)
	r.GET("/preview", a.getPreview)
	r.GET("/preview/stream", a.streamPreview)
	if clientDir != "" {
		r.Static("/app", clientDir)
	}
	a.engine = r
	return a
}

// Handler returns the router.
func (a *Api) Handler() http.Handler {
	return a.engine
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: a.engine}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Server shutdown failed")
		}
	}()

	log.WithField("addr", addr).Info("Listening...")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("Handled request")
	}
}

func (a *Api) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *Api) getStoryboard(c *gin.Context) {
	c.String(http.StatusOK, a.sb.Render())
}

func (a *Api) getOSB(c *gin.Context) {
	name := a.sb.OSBName()
	if name == "" {
		name = "storyboard.osb"
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(a.sb.RenderOSB()))
}

type elementView struct {
	Kind     string            `json:"kind"`
	Path     string            `json:"path"`
	Layer    storyboard.Layer  `json:"layer"`
	Origin   storyboard.Origin `json:"origin"`
	X        int               `json:"x"`
	Y        int               `json:"y"`
	Commands []string          `json:"commands"`
}

func (a *Api) getElements(c *gin.Context) {
	var views []elementView
	for _, e := range a.sb.Elements() {
		o := e.Base()
		v := elementView{Kind: o.Kind, Path: o.Path, Layer: o.Layer, Origin: o.Origin, X: o.X, Y: o.Y}
		for _, cmd := range command.Arrange(o.Commands()) {
			v.Commands = append(v.Commands, cmd.Render())
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, gin.H{"elements": views})
}

func (a *Api) getPreview(c *gin.Context) {
	t, ok := c.GetQuery("t")
	if !ok || t == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing t parameter"})
		return
	}
	frame := preview.CalculateFrame(a.sb, command.Millis(t))
	if c.Query("visible") == "true" {
		frame.Elements = frame.Visible()
	}
	c.JSON(http.StatusOK, frame)
}

// streamPreview plays the storyboard from the "from" query time, sending a
// frame every interval until the client goes away.
func (a *Api) streamPreview(c *gin.Context) {
	conn, err := a.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("Preview stream upgrade failed")
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	from := command.Millis(c.Query("from"))
	start := time.Now()
	publishTimer := time.NewTicker(a.interval)
	defer publishTimer.Stop()
	for {
		select {
		case <-done:
			return
		case <-publishTimer.C:
			ms := from + int(time.Since(start).Milliseconds())
			if err := conn.WriteJSON(preview.CalculateFrame(a.sb, ms)); err != nil {
				log.WithError(err).Debug("Preview stream closed")
				return
			}
		}
	}
}
