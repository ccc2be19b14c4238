package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

// TestNoteViewFlow drives a full round trip against a running server:
// register, login, create a note, view it twice (second view lands inside
// the dedup window), then read the recency lists back.
func TestNoteViewFlow(t *testing.T) {
	baseURL := os.Getenv("INTEGRATION_BASE_URL")
	if baseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	suffix := time.Now().UnixNano()
	username := fmt.Sprintf("it_user_%d", suffix)
	password := "Passw0rd!"
	email := fmt.Sprintf("it_user_%d@test.local", suffix)
	device := "integration"

	// 1. Register + login
	registerReq := map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	}
	if _, err := postJSON(client, baseURL+"/users/register", registerReq, nil, http.StatusOK); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	headers := map[string]string{"X-Device": device}
	loginResp, err := postJSON(client, baseURL+"/users/login", map[string]string{
		"username": username,
		"password": password,
	}, headers, http.StatusOK)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	token, _ := loginResp["access_token"].(string)
	if token == "" {
		t.Fatal("login response missing access_token")
	}
	authed := map[string]string{"Authorization": "Bearer " + token}

	// 2. Create a note
	noteResp, err := postJSON(client, baseURL+"/notes", map[string]string{
		"title":   "integration note",
		"content": "hello",
	}, authed, http.StatusOK)
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}
	noteID, ok := noteResp["id"].(float64)
	if !ok || noteID == 0 {
		t.Fatalf("create note returned no id: %v", noteResp)
	}
	viewURL := fmt.Sprintf("%s/notes/%.0f/view", baseURL, noteID)

	// 3. First view counts, immediate repeat is deduplicated
	first, err := postJSON(client, viewURL, nil, authed, http.StatusOK)
	if err != nil {
		t.Fatalf("first view failed: %v", err)
	}
	if first["counted"] != true || first["views_count"].(float64) != 1 {
		t.Fatalf("first view: want counted=true views=1, got %v", first)
	}
	second, err := postJSON(client, viewURL, nil, authed, http.StatusOK)
	if err != nil {
		t.Fatalf("second view failed: %v", err)
	}
	if second["counted"] != false || second["views_count"].(float64) != 1 {
		t.Fatalf("second view: want counted=false views=1, got %v", second)
	}

	// 4. The note shows up in both recency lists
	recent, err := getJSON(client, baseURL+"/notes/recent?limit=5", authed, http.StatusOK)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	viewed, _ := recent["recently_viewed"].([]interface{})
	modified, _ := recent["recently_modified"].([]interface{})
	if len(viewed) != 1 || len(modified) != 1 {
		t.Fatalf("expected the note in both lists, got %v", recent)
	}

	// 5. An oversized limit is clamped, not rejected
	if _, err := getJSON(client, baseURL+"/notes/recent?limit=1000", authed, http.StatusOK); err != nil {
		t.Fatalf("clamped limit failed: %v", err)
	}
}

func postJSON(client *http.Client, url string, body interface{}, headers map[string]string, expectedStatus int) (map[string]interface{}, error) {
	var buf *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(http.MethodPost, url, buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return doJSON(client, req, expectedStatus)
}

func getJSON(client *http.Client, url string, headers map[string]string, expectedStatus int) (map[string]interface{}, error) {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return doJSON(client, req, expectedStatus)
}

func doJSON(client *http.Client, req *http.Request, expectedStatus int) (map[string]interface{}, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != expectedStatus {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}
