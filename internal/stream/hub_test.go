package stream

import (
	"image/color"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"terrasim/internal/core"
	"terrasim/internal/render"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("spectator never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	f, err := DecodeFrame(payload)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func TestHubSendsKeyframeThenDeltas(t *testing.T) {
	geom := core.NewGrid(4, 3, 5)
	batch := render.NewTerrainBatch(geom.Len())
	hub := NewHub(HubConfig{Geometry: geom, Logger: log.New(io.Discard, "", 0)})
	conn := dial(t, hub)

	bubble := render.Primitive{Shape: render.ShapeCircle, Bounds: core.RectAround(core.Vec2{X: 7, Y: 8}, 5, 5), Color: color.RGBA{R: 255, A: 255}}
	hub.SubmitBatch(batch, []render.Primitive{bubble})
	f := readFrame(t, conn)
	if f.Kind != FrameKey || len(f.Cells) != 12 || f.Cols != 4 || f.Rows != 3 {
		t.Fatalf("first frame = %s with %d cells (%dx%d)", f.Kind, len(f.Cells), f.Cols, f.Rows)
	}
	if len(f.Effects) != 1 || !f.Effects[0].Circle || f.Effects[0].X != 7 || f.Effects[0].W != 10 {
		t.Fatalf("effects = %+v", f.Effects)
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	batch.Set(5, render.Primitive{Bounds: geom.CellRect(1, 1), Color: white})
	hub.SubmitBatch(batch, nil)
	f = readFrame(t, conn)
	if f.Kind != FrameDelta || len(f.Cells) != 1 || f.Cells[0].Index != 5 {
		t.Fatalf("delta = %s %+v", f.Kind, f.Cells)
	}
	if UnpackColor(f.Cells[0].Color) != white {
		t.Fatalf("delta colour = %v", UnpackColor(f.Cells[0].Color))
	}

	batch.Reset()
	hub.SubmitBatch(batch, nil)
	if f = readFrame(t, conn); f.Kind != FrameKey {
		t.Fatalf("after rebuild got %s, want keyframe", f.Kind)
	}
}

func TestHubWithoutSpectatorsTracksCursor(t *testing.T) {
	geom := core.NewGrid(2, 2, 5)
	batch := render.NewTerrainBatch(geom.Len())
	hub := NewHub(HubConfig{Geometry: geom, Logger: log.New(io.Discard, "", 0)})
	hub.SubmitBatch(batch, nil)
	batch.Set(0, render.Primitive{})
	hub.SubmitBatch(batch, nil)
	if hub.ClientCount() != 0 {
		t.Fatal("phantom spectator")
	}
	if _, _, full := batch.ChangesSince(hub.cursor); full {
		t.Fatal("hub cursor fell behind the batch generation")
	}
}

func TestPackColorRoundTrip(t *testing.T) {
	c := color.RGBA{R: 123, G: 108, B: 113, A: 255}
	if got := UnpackColor(PackColor(c)); got != c {
		t.Fatalf("round trip = %v", got)
	}
}
