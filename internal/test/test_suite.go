// Command-line stress test that simulates many users viewing the same note
// concurrently and verifies the dedup ledger: every user's first view counts
// exactly once, immediate repeats do not, and the final counter equals the
// number of distinct viewers. Produces CSV + HTML reports.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

const baseURL = "http://127.0.0.1:8080/api/v1"

var client = &http.Client{Timeout: 10 * time.Second}

// viewResult 汇总单个用户的打点行为，方便折叠到报告内。
type viewResult struct {
	Username      string
	FirstCounted  bool
	RepeatCounted bool
	ViewsSeen     float64
	ErrMessage    string
	Timestamp     time.Time
}

// ======================= 基本 HTTP helper =======================

// doJSON serializes an optional JSON body and sends the request.
func doJSON(method, url string, body any, headers map[string]string) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

func decodeMap(data []byte) map[string]any {
	res := map[string]any{}
	_ = json.Unmarshal(data, &res)
	return res
}

// ======================= 账号 / 笔记 Helpers =======================

type account struct {
	Username string
	Token    string
}

// registerAndLogin provisions one account and returns its access token.
func registerAndLogin(username, email, password string) (account, error) {
	status, data, err := doJSON("POST", baseURL+"/users/register", map[string]string{
		"email": email, "username": username, "password": password,
	}, nil)
	if err != nil {
		return account{}, err
	}
	if status != 200 && status != 400 { // 400 表示已存在（可接受）
		return account{}, fmt.Errorf("register status %d body=%s", status, string(data))
	}

	status, data, err = doJSON("POST", baseURL+"/users/login", map[string]string{
		"username": username, "password": password,
	}, map[string]string{"X-Device": "stress"})
	if err != nil {
		return account{}, err
	}
	if status != 200 {
		return account{}, fmt.Errorf("login status %d body=%s", status, string(data))
	}
	res := decodeMap(data)
	token, _ := res["access_token"].(string)
	return account{Username: username, Token: token}, nil
}

func bearer(a account) map[string]string {
	return map[string]string{"Authorization": "Bearer " + a.Token}
}

// setupSharedNote creates a workspace, invites every viewer, and puts one
// note inside so all of them may view it.
func setupSharedNote(owner account, viewers []account) (float64, error) {
	status, data, err := doJSON("POST", baseURL+"/workspaces", map[string]string{
		"name": "Stress", "slug": fmt.Sprintf("stress-%d", time.Now().UnixNano()%1000000),
	}, bearer(owner))
	if err != nil || status != 200 {
		return 0, fmt.Errorf("create workspace status=%d err=%v", status, err)
	}
	wsID, _ := decodeMap(data)["id"].(float64)

	for _, v := range viewers {
		// 需要 user_id：用 /notes 创建一篇探针笔记读出 owner_id
		status, data, err := doJSON("POST", baseURL+"/notes", map[string]string{
			"title": "probe", "content": "",
		}, bearer(v))
		if err != nil || status != 200 {
			return 0, fmt.Errorf("probe note for %s status=%d err=%v", v.Username, status, err)
		}
		userID, _ := decodeMap(data)["owner_id"].(float64)
		status, _, err = doJSON("POST", fmt.Sprintf("%s/workspaces/%.0f/members", baseURL, wsID), map[string]any{
			"user_id": uint64(userID),
		}, bearer(owner))
		if err != nil || status != 200 {
			return 0, fmt.Errorf("invite %s status=%d err=%v", v.Username, status, err)
		}
	}

	status, data, err = doJSON("POST", baseURL+"/notes", map[string]any{
		"title": "shared stress note", "content": "...", "workspace_id": uint64(wsID),
	}, bearer(owner))
	if err != nil || status != 200 {
		return 0, fmt.Errorf("create shared note status=%d err=%v", status, err)
	}
	noteID, _ := decodeMap(data)["id"].(float64)
	return noteID, nil
}

// viewTwice hits the view endpoint twice in quick succession: the first call
// should count, the immediate repeat should be deduplicated.
func viewTwice(a account, noteID float64) viewResult {
	url := fmt.Sprintf("%s/notes/%.0f/view", baseURL, noteID)

	status, data, err := doJSON("POST", url, nil, bearer(a))
	if err != nil || status != 200 {
		return viewResult{Username: a.Username, ErrMessage: fmt.Sprintf("first view status=%d err=%v", status, err), Timestamp: time.Now()}
	}
	first := decodeMap(data)
	firstCounted, _ := first["counted"].(bool)

	status, data, err = doJSON("POST", url, nil, bearer(a))
	if err != nil || status != 200 {
		return viewResult{Username: a.Username, FirstCounted: firstCounted, ErrMessage: fmt.Sprintf("repeat view status=%d err=%v", status, err), Timestamp: time.Now()}
	}
	repeat := decodeMap(data)
	repeatCounted, _ := repeat["counted"].(bool)
	views, _ := repeat["views_count"].(float64)

	res := viewResult{
		Username:      a.Username,
		FirstCounted:  firstCounted,
		RepeatCounted: repeatCounted,
		ViewsSeen:     views,
		Timestamp:     time.Now(),
	}
	if !firstCounted {
		res.ErrMessage = "first view was not counted"
	} else if repeatCounted {
		res.ErrMessage = "repeat view inside window was counted"
	}
	return res
}

// ======================= 并发测试与报告生成 =======================

func concurrentViewTest(userCount, maxConcurrent int, outCSV, outHTML string) error {
	suffix := time.Now().UnixNano() % 1000000
	password := "StressPwd123!"

	owner, err := registerAndLogin(
		fmt.Sprintf("stress-owner-%d", suffix),
		fmt.Sprintf("stress-owner-%d@test.local", suffix),
		password,
	)
	if err != nil {
		return fmt.Errorf("owner setup: %w", err)
	}

	viewers := make([]account, 0, userCount)
	for i := 0; i < userCount; i++ {
		a, err := registerAndLogin(
			fmt.Sprintf("stress-viewer-%d-%d", suffix, i),
			fmt.Sprintf("stress-viewer-%d-%d@test.local", suffix, i),
			password,
		)
		if err != nil {
			return fmt.Errorf("viewer %d setup: %w", i, err)
		}
		viewers = append(viewers, a)
	}

	noteID, err := setupSharedNote(owner, viewers)
	if err != nil {
		return err
	}

	// 并发打点（带并发上限的 worker pool）
	jobs := make(chan account, len(viewers))
	resCh := make(chan viewResult, len(viewers))
	var wg sync.WaitGroup

	workers := maxConcurrent
	if workers < 1 {
		workers = 10
	}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for a := range jobs {
				resCh <- viewTwice(a, noteID)
			}
		}()
	}
	for _, a := range viewers {
		jobs <- a
	}
	close(jobs)
	wg.Wait()
	close(resCh)

	var allResults []viewResult
	failures := 0
	for r := range resCh {
		if r.ErrMessage != "" {
			failures++
			log.Printf("[view error] user=%s err=%s\n", r.Username, r.ErrMessage)
		}
		allResults = append(allResults, r)
	}

	// 校验最终计数：每个 viewer 恰好贡献一次
	_, data, err := doJSON("GET", fmt.Sprintf("%s/notes/%.0f", baseURL, noteID), nil, bearer(owner))
	if err != nil {
		return err
	}
	finalViews, _ := decodeMap(data)["views_count"].(float64)
	if int(finalViews) != userCount {
		return fmt.Errorf("final views_count=%d, want %d (one per distinct viewer)", int(finalViews), userCount)
	}
	if failures > 0 {
		return fmt.Errorf("%d viewer(s) reported errors", failures)
	}

	if err := writeCSVReport(outCSV, allResults); err != nil {
		return err
	}
	if err := writeHTMLReport(outHTML, allResults); err != nil {
		log.Printf("write HTML report error: %v", err)
	}
	return nil
}

func writeCSVReport(path string, results []viewResult) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()
	_ = w.Write([]string{"Username", "FirstCounted", "RepeatCounted", "ViewsSeen", "ErrMessage", "Timestamp"})
	for _, r := range results {
		_ = w.Write([]string{
			r.Username,
			fmt.Sprintf("%v", r.FirstCounted),
			fmt.Sprintf("%v", r.RepeatCounted),
			fmt.Sprintf("%.0f", r.ViewsSeen),
			r.ErrMessage,
			r.Timestamp.Format(time.RFC3339),
		})
	}
	return nil
}

// writeHTMLReport renders a basic table so failures are easy to eyeball.
func writeHTMLReport(path string, results []viewResult) error {
	const tpl = `
<!doctype html>
<html>
<head><meta charset="utf-8"><title>View Dedup Stress Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align:left }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h2>View Dedup Stress Report ({{ .GeneratedAt }})</h2>
<table>
<thead><tr><th>User</th><th>FirstCounted</th><th>RepeatCounted</th><th>ViewsSeen</th><th>Error</th><th>Timestamp</th></tr></thead>
<tbody>
{{ range .Rows }}
<tr>
<td>{{ .Username }}</td>
<td>{{ .FirstCounted }}</td>
<td>{{ .RepeatCounted }}</td>
<td>{{ .ViewsSeen }}</td>
<td>{{ .ErrMessage }}</td>
<td>{{ .Timestamp }}</td>
</tr>
{{ end }}
</tbody>
</table>
</body>
</html>`

	data := struct {
		GeneratedAt string
		Rows        []viewResult
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Rows:        results,
	}

	t, err := template.New("report").Parse(tpl)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}

// ======================= main =======================

func main() {
	userCount := 20
	maxConcurrent := 10
	outCSV := "view_stress_report.csv"
	outHTML := "view_stress_report.html"

	start := time.Now()
	if err := concurrentViewTest(userCount, maxConcurrent, outCSV, outHTML); err != nil {
		log.Fatalf("concurrent view test failed: %v", err)
	}
	log.Printf("concurrent view test finished in %s, CSV=%s HTML=%s\n", time.Since(start), outCSV, outHTML)
	fmt.Println("All view dedup stress checks passed!")
}
