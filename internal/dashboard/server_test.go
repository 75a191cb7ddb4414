// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

func testSnapshot(ts float64) telemetry.Snapshot {
	return telemetry.Snapshot{
		Battery:     11.7,
		Yaw:         5,
		Temperature: 25,
		Altitude:    101.5,
		Latitude:    37.7749,
		Longitude:   -122.4194,
		Connection:  telemetry.LinkGood,
		Timestamp:   ts,
	}
}

func testTrend() []history.Entry {
	return []history.Entry{{Label: "10:00:00", Value: 100}, {Label: "10:00:01", Value: 101.5}}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestTelemetryBeforeFirstFrame(t *testing.T) {
	s := NewServer()

	rec := get(t, s.Handler(), "/api/telemetry")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	_, ok := s.Latest()
	assert.False(t, ok)
}

func TestTelemetryReturnsLatestSnapshot(t *testing.T) {
	s := NewServer()
	require.NoError(t, s.Render(testSnapshot(1), testTrend()))
	require.NoError(t, s.Render(testSnapshot(2), testTrend()))

	rec := get(t, s.Handler(), "/api/telemetry")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got telemetry.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, testSnapshot(2), got)
}

func TestTelemetryRejectsPost(t *testing.T) {
	s := NewServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/telemetry", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHistory(t *testing.T) {
	s := NewServer()

	rec := get(t, s.Handler(), "/api/history")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"trend":[],"stats":{"count":0,"min":0,"max":0,"mean":0,"stddev":0}}`, rec.Body.String())

	require.NoError(t, s.Render(testSnapshot(1), testTrend()))
	rec = get(t, s.Handler(), "/api/history")
	var body struct {
		Trend []history.Entry `json:"trend"`
		Stats history.Stats   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, testTrend(), body.Trend)
	assert.Equal(t, 2, body.Stats.Count)
	assert.Equal(t, 101.5, body.Stats.Max)
}

func TestChart(t *testing.T) {
	s := NewServer()
	require.NoError(t, s.Render(testSnapshot(1), testTrend()))

	rec := get(t, s.Handler(), "/api/chart.png?w=320&h=160")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	for _, q := range []string{"w=abc", "w=0", "h=5000", "w=20"} {
		rec = get(t, s.Handler(), "/api/chart.png?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestSession(t *testing.T) {
	s := NewServer()
	require.NoError(t, s.Render(testSnapshot(1), nil))

	rec := get(t, s.Handler(), "/api/session")
	require.Equal(t, http.StatusOK, rec.Code)

	var sess Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, s.SessionID(), sess.ID)
	assert.EqualValues(t, 1, sess.Frames)
	assert.Zero(t, sess.Clients)
	_, err := uuid.Parse(sess.ID)
	assert.NoError(t, err)
}

func TestIndexPage(t *testing.T) {
	rec := get(t, NewServer().Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}

func TestRenderBuildsFrame(t *testing.T) {
	s := NewServer()
	require.NoError(t, s.Render(testSnapshot(1), testTrend()))

	frame, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "telemetry", frame.Type)
	assert.Equal(t, 2, frame.Gauges.LinkBars)
	assert.Equal(t, "N", frame.Gauges.Heading)
	assert.Len(t, frame.Status, 7)
	assert.Equal(t, 2, frame.Stats.Count)
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(msg, &f))
	return f
}

func TestWebsocketStreamsFrames(t *testing.T) {
	s := NewServer()
	require.NoError(t, s.Render(testSnapshot(1), testTrend()))

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the latest frame is sent on connect
	first := readFrame(t, conn)
	assert.Equal(t, 1.0, first.Snapshot.Timestamp)

	require.NoError(t, s.Render(testSnapshot(2), testTrend()))
	second := readFrame(t, conn)
	assert.Equal(t, 2.0, second.Snapshot.Timestamp)
	assert.Equal(t, telemetry.LinkGood, second.Snapshot.Connection)
}
