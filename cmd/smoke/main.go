package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // LLM turns can be slow, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func decode(body []byte) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(body, &out)
	return out
}

func dataField(resp map[string]interface{}, key string) string {
	if data, ok := resp["data"].(map[string]interface{}); ok {
		if v, ok := data[key].(string); ok {
			return v
		}
	}
	return ""
}

func main() {
	token := os.Getenv("SMOKE_TOKEN")
	if token == "" {
		color.Red("SMOKE_TOKEN is not set (a valid user JWT is required)")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Product Workflow API Smoke Test\n")

	// 1. Create Project
	color.Yellow("\n1. Create Project")
	resp, body, err := sendRequest("POST", "/project/v1", token, map[string]interface{}{
		"name":        "Smoke Test Tracker",
		"description": "A habit tracker for remote teams",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	createResp := decode(body)
	prettyPrint(createResp)

	projectID := dataField(createResp, "id")
	if projectID == "" {
		color.Red("No project id in response, aborting")
		os.Exit(1)
	}

	// 2. Ideation chat turn
	color.Yellow("\n2. Send Ideation Chat Message")
	resp, body, err = sendRequest("POST", "/chat/v1/send", token, map[string]interface{}{
		"project_id": projectID,
		"message":    "I want to build a habit tracker for distributed teams. Who are the competitors?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 3. Advance to Feature Mapping
	color.Yellow("\n3. Advance Phase (1 -> 2)")
	resp, body, err = sendRequest("POST", "/project/v1/"+projectID+"/advance", token, map[string]interface{}{
		"expected_phase": 1,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 4. Stale advance must be rejected
	color.Yellow("\n4. Advance Phase with Stale Expectation (expect 409)")
	resp, body, err = sendRequest("POST", "/project/v1/"+projectID+"/advance", token, map[string]interface{}{
		"expected_phase": 1,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode == http.StatusConflict {
		color.Green("Status: %s (conflict as expected)", resp.Status)
	} else {
		color.Red("Status: %s (expected 409)", resp.Status)
	}
	prettyPrint(decode(body))

	// 5. Canvas snapshot
	color.Yellow("\n5. Get Canvas")
	resp, body, err = sendRequest("GET", "/canvas/v1/"+projectID, token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 6. Chat history for phase 1
	color.Yellow("\n6. Get Phase 1 Chat History")
	resp, body, err = sendRequest("GET", "/chat/v1/history/"+projectID+"?phase=1", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	// 7. Cleanup
	color.Yellow("\n7. Delete Project")
	resp, body, err = sendRequest("DELETE", "/project/v1/"+projectID, token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(decode(body))

	color.Cyan("\n✅ Smoke test finished")
}
