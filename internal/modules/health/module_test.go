package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"paper_bot/internal/modules/health/service"
)

func TestMux_Readiness(t *testing.T) {
	state := service.NewState()
	srv := httptest.NewServer(NewMux(state))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 503 {
		t.Errorf("/readyz before ready = %d, want 503", resp.StatusCode)
	}

	state.SetWSConnected(true)
	resp, err = srv.Client().Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("/readyz after connect = %d, want 200", resp.StatusCode)
	}

	resp, err = srv.Client().Get(srv.URL + "/livez")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("/livez = %d, want 200", resp.StatusCode)
	}
}

func TestMux_HealthzJSON(t *testing.T) {
	state := service.NewState()
	state.SetWSConnected(true)
	state.TouchTick(time.Now())

	srv := httptest.NewServer(NewMux(state))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["ready"] != true || body["wsConnected"] != true {
		t.Errorf("healthz = %v", body)
	}
	if body["lastTickUnix"].(float64) == 0 {
		t.Error("lastTickUnix not set")
	}
}
