package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/sharpscene/assets"
	"github.com/mogaika/sharpscene/gfx/gfxtest"
	"github.com/mogaika/sharpscene/r3d"
	"github.com/mogaika/sharpscene/render"
	"github.com/mogaika/sharpscene/resources"
	"github.com/mogaika/sharpscene/scene"
)

func testFrame(t *testing.T) (*render.Frame, *scene.GameObject) {
	res := resources.NewServices(gfxtest.New(), assets.NewMemory(nil))
	s := scene.New("demo")
	cube := scene.NewCube(res, "cube", mgl32.Vec3{1, 2, 3})
	lamp, err := scene.NewPointLight("lamp", 0, mgl32.Vec3{0, 3, 0})
	require.NoError(t, err)
	group := scene.NewSceneNode("group")
	group.AddChild(lamp)
	s.AddNode(cube, group)
	s.SetActive(cube)

	return &render.Frame{
		Number: 7,
		Delta:  16 * time.Millisecond,
		Camera: r3d.NewCameraView(mgl32.Vec3{0, 0, 3}, 1),
		Scene:  s,
		Reports: []render.Report{
			{Renderer: "objects", Tasks: make([]scene.Task, 4), Drawn: 1},
			{Renderer: "ui", Err: errors.New("broken")},
		},
	}, cube
}

func getJSON(t *testing.T, url string, v interface{}) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestRoutesBeforePublish(t *testing.T) {
	srv := httptest.NewServer(NewServer(nil).Handler())
	defer srv.Close()

	var e struct{ Error string }
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/json/scene", &e))
	assert.Equal(t, ErrNoFrame.Error(), e.Error)
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/json/stats", &e))
}

func TestSceneRoutes(t *testing.T) {
	s := NewServer(nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	frame, cube := testFrame(t)
	s.Publish(frame)

	var info SceneInfo
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/json/scene", &info))
	assert.Equal(t, "demo", info.Name)
	assert.Equal(t, cube.ID().String(), info.Active)
	require.Len(t, info.Nodes, 2)
	assert.Equal(t, "object", info.Nodes[0].Type)
	assert.Equal(t, "primitive:cube", info.Nodes[0].Mesh)
	require.NotNil(t, info.Nodes[0].Bounds)
	assert.Equal(t, [3]float32{0.5, 1.5, 2.5}, info.Nodes[0].Bounds.Min)
	require.Len(t, info.Nodes[1].Children, 1)
	lamp := info.Nodes[1].Children[0]
	assert.Equal(t, "light", lamp.Type)
	assert.Equal(t, "point", lamp.Light)

	var node NodeInfo
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/json/node/"+lamp.ID, &node))
	assert.Equal(t, "lamp", node.Name)

	var e struct{ Error string }
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/json/node/nope", &e))
}

func TestStatsRoute(t *testing.T) {
	s := NewServer(nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	frame, _ := testFrame(t)
	s.Publish(frame)

	var stats StatsInfo
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/json/stats", &stats))
	assert.Equal(t, uint64(7), stats.Frame)
	assert.Equal(t, 16.0, stats.DeltaMs)
	assert.Equal(t, float32(r3d.DefaultFov), stats.Camera.Fov)
	require.Len(t, stats.Reports, 2)
	assert.Equal(t, ReportInfo{Renderer: "objects", Tasks: 4, Drawn: 1}, stats.Reports[0])
	assert.Equal(t, "broken", stats.Reports[1].Error)
}

func TestStatsStream(t *testing.T) {
	s := NewServer(nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	frame, _ := testFrame(t)
	s.Publish(frame)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/stats"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var stats StatsInfo
	require.NoError(t, conn.ReadJSON(&stats))
	assert.Equal(t, uint64(7), stats.Frame, "last stats are sent on connect")

	require.Eventually(t, func() bool { return s.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	frame.Number = 8
	s.Publish(frame)
	require.NoError(t, conn.ReadJSON(&stats))
	assert.Equal(t, uint64(8), stats.Frame)
}

func TestRecoversFromPanics(t *testing.T) {
	s := NewServer(nil)
	s.router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) { panic("boom") })
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/panic")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
