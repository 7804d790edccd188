package server

import (
	"net/http"
	"testing"

	"concierge/internal/models"
)

func TestBanAndUnbanIP(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedUser(t, db, models.RoleAdmin)

	app := newTestApp(admin.ID)
	app.Get("/api/admin/bans", s.GetIPBans)
	app.Post("/api/admin/bans", s.BanIP)
	app.Delete("/api/admin/bans/:ip", s.UnbanIP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/bans", BanIPInput{IP: "203.0.113.9"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if !s.ipBans.IsBanned("203.0.113.9") {
		t.Fatal("IP should be banned after POST")
	}

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/admin/bans", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var list struct {
		Banned []string `json:"banned"`
	}
	decodeBody(t, resp, &list)
	_ = resp.Body.Close()
	if len(list.Banned) != 1 || list.Banned[0] != "203.0.113.9" {
		t.Fatalf("unexpected ban list: %v", list.Banned)
	}

	resp, err = app.Test(jsonRequest(t, http.MethodDelete, "/api/admin/bans/203.0.113.9", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if s.ipBans.IsBanned("203.0.113.9") {
		t.Fatal("IP should be unbanned after DELETE")
	}
}

func TestBanIPRejectsInvalidAddress(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedUser(t, db, models.RoleAdmin)

	app := newTestApp(admin.ID)
	app.Post("/api/admin/bans", s.BanIP)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/admin/bans", BanIPInput{IP: "not-an-ip"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUnbanUnknownIPReturnsNotFound(t *testing.T) {
	t.Parallel()

	s, db := newTestServer(t)
	admin := seedUser(t, db, models.RoleAdmin)

	app := newTestApp(admin.ID)
	app.Delete("/api/admin/bans/:ip", s.UnbanIP)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/admin/bans/198.51.100.1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
