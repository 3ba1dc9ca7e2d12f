package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sendFeedback posts a feedback payload to the relay endpoint
func sendFeedback(endpoint string, payload Payload) {
	// Convert payload to JSON
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error marshaling payload: %v\n", err)
		return // Don't exit on submission error
	}

	// Send request with retry logic
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	// Try up to 3 times with exponential backoff
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest("POST", endpoint+"/", bytes.NewBuffer(jsonPayload))
		if err != nil {
			fmt.Printf("Error creating request: %v\n", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("Error sending feedback (attempt %d/3): %v\n", i+1, err)
			if i < 2 {
				// Wait before retrying (exponential backoff)
				backoff := time.Duration(1<<uint(i)) * time.Second
				debugLog("Retrying in %v...\n", backoff)
				time.Sleep(backoff)
				continue
			}
			return // Don't exit on submission error
		}

		var result struct {
			ID     string `json:"id"`
			URL    string `json:"url"`
			Status string `json:"status"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		_ = resp.Body.Close()

		// Check response status
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			fmt.Printf("Received non-success status code: %d (%s) (attempt %d/3)\n", resp.StatusCode, result.Status, i+1)
			if i < 2 {
				// Wait before retrying
				backoff := time.Duration(1<<uint(i)) * time.Second
				debugLog("Retrying in %v...\n", backoff)
				time.Sleep(backoff)
				continue
			}
			return
		}

		// Success
		fmt.Printf("Feedback forwarded: issue %s %s\n", result.ID, result.URL)
		return
	}
}
