//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"gift-tracker-go/internal/app"
	"gift-tracker-go/internal/config"
	"gift-tracker-go/internal/db"
	"gift-tracker-go/pkg/logger"
	"gorm.io/gorm"
)

const apiKey = "e2e-key"

type testEnv struct {
	server *httptest.Server
	app    *app.App
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	cfg := config.Config{
		HTTPPort:       "0",
		Env:            "test",
		APIKey:         apiKey,
		MetricsEnabled: true,
		Import:         config.ImportConfig{MaxBodyBytes: 1 << 20},
		DB: config.DBConfig{
			Driver:      config.DriverPostgres,
			DSN:         dsn,
			AutoMigrate: true,
		},
	}

	log := logger.Discard()
	application, err := app.NewWithConfig(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("app init: %v", err)
	}

	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	server := httptest.NewServer(application.HTTPServer().Handler)
	return &testEnv{server: server, app: application, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	_ = e.app.Close()
	_ = db.Close(e.db)
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE cards, gifts, events, people, households RESTART IDENTITY CASCADE",
	).Error
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func requestJSON(t *testing.T, client *http.Client, method, url string, payload interface{}) (*http.Response, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, respBody)
	}
	return resp, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

type householdResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type resolveResponse struct {
	Outcome string            `json:"outcome"`
	Entity  householdResponse `json:"entity"`
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(env.server.URL + "/api/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected health 200, got %d", resp.StatusCode)
	}

	resp, err = client.Get(env.server.URL + "/api/households")
	if err != nil {
		t.Fatalf("households: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without api key, got %d", resp.StatusCode)
	}
}

func TestE2EConcurrentResolveCreatesOneRow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	const workers = 8

	payload := []byte(`{"kind":"household","name":"The Race Family"}`)

	var wg sync.WaitGroup
	statuses := make([]int, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/resolve", bytes.NewReader(payload))
			if err != nil {
				errs[i] = err
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-API-Key", apiKey)
			resp, err := client.Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i, status := range statuses {
		if errs[i] != nil {
			t.Fatalf("request %d: %v", i, errs[i])
		}
		if status != http.StatusOK && status != http.StatusCreated && status != http.StatusConflict {
			t.Fatalf("unexpected status %d", status)
		}
	}

	var count int64
	if err := env.db.Table("households").Where("name_key = ? AND active", "the race family").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 household, got %d", count)
	}
}

func TestE2EImportAndMergeFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/import/gifts", map[string]interface{}{
		"gifts": []interface{}{
			map[string]interface{}{
				"direction":               "in",
				"description":             "Scarf",
				"est_value":               "25.50",
				"event_name":              "Christmas 2025",
				"given_date":              "2025-12-25",
				"giver_name":              "Aunt May",
				"giver_household_name":    "Parker Family",
				"receiver_household_name": "The Parkers",
			},
			map[string]interface{}{
				"direction":            "out",
				"description":          "Mug",
				"event_name":           "Christmas 2025",
				"giver_household_name": "The Parkers",
			},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected import 200, got %d", resp.StatusCode)
	}
	var imported struct {
		Created int `json:"created"`
	}
	decodeData(t, body, &imported)
	if imported.Created != 2 {
		t.Fatalf("expected 2 gifts, got %d", imported.Created)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/households", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected list 200, got %d", resp.StatusCode)
	}
	var households []householdResponse
	decodeData(t, body, &households)
	ids := make(map[string]int64, len(households))
	for _, h := range households {
		ids[h.Name] = h.ID
	}
	source, target := ids["Parker Family"], ids["The Parkers"]
	if source == 0 || target == 0 {
		t.Fatalf("expected both households, got %+v", households)
	}

	var eventID int64
	if err := env.db.Table("events").Select("id").Where("name = ?", "Christmas 2025").Scan(&eventID).Error; err != nil {
		t.Fatalf("event id: %v", err)
	}
	if err := env.db.Exec("INSERT INTO cards (event_id, household_id) VALUES (?, ?)", eventID, source).Error; err != nil {
		t.Fatalf("insert card: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/households/merge", map[string]int64{
		"source_household_id": source,
		"target_household_id": target,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected merge 200, got %d (%+v)", resp.StatusCode, body.Error)
	}
	var merged struct {
		PeopleMoved  int64 `json:"people_moved"`
		GiftsUpdated int64 `json:"gifts_updated"`
		CardsUpdated int64 `json:"cards_updated"`
	}
	decodeData(t, body, &merged)
	if merged.PeopleMoved != 1 || merged.GiftsUpdated != 1 || merged.CardsUpdated != 1 {
		t.Fatalf("unexpected merge counts: %+v", merged)
	}

	var remaining int64
	if err := env.db.Table("gifts").
		Where("giver_household_id = ? OR receiver_household_id = ?", source, source).
		Count(&remaining).Error; err != nil {
		t.Fatalf("count gifts: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected no gifts referencing source, got %d", remaining)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/households/"+strconv.FormatInt(source, 10), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected get 200, got %d", resp.StatusCode)
	}
	var retired householdResponse
	decodeData(t, body, &retired)
	if retired.Active {
		t.Fatalf("expected source to be retired")
	}
}

func TestE2EMergeCardConflictRollsBack(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 10 * time.Second}
	base := env.server.URL + "/api"

	create := func(name string) int64 {
		resp, body := requestJSON(t, client, http.MethodPost, base+"/resolve", map[string]string{"kind": "household", "name": name})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201 for %s, got %d", name, resp.StatusCode)
		}
		var res resolveResponse
		decodeData(t, body, &res)
		return res.Entity.ID
	}
	source := create("Smith Family")
	target := create("The Smiths")

	resp, body := requestJSON(t, client, http.MethodPost, base+"/resolve", map[string]interface{}{
		"kind":         "person",
		"name":         "Jane Smith",
		"household_id": source,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected person 201, got %d (%+v)", resp.StatusCode, body.Error)
	}

	if err := env.db.Exec("INSERT INTO events (name, event_type) VALUES ('Holiday Cards', 'card')").Error; err != nil {
		t.Fatalf("insert event: %v", err)
	}
	if err := env.db.Exec(`INSERT INTO cards (event_id, household_id)
		SELECT id, ? FROM events WHERE name = 'Holiday Cards'
		UNION ALL SELECT id, ? FROM events WHERE name = 'Holiday Cards'`, source, target).Error; err != nil {
		t.Fatalf("insert cards: %v", err)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/households/merge", map[string]int64{
		"source_household_id": source,
		"target_household_id": target,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected merge 409, got %d", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "conflict" {
		t.Fatalf("expected conflict error, got %+v", body.Error)
	}

	var stillInSource int64
	if err := env.db.Table("people").Where("household_id = ?", source).Count(&stillInSource).Error; err != nil {
		t.Fatalf("count people: %v", err)
	}
	if stillInSource != 1 {
		t.Fatalf("expected person move to be rolled back, got %d in source", stillInSource)
	}
}
