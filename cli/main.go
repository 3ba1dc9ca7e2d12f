package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Payload represents the JSON structure expected by the relay endpoint
type Payload struct {
	RepoID  string   `json:"repoID"`
	Title   string   `json:"title,omitempty"`
	Note    string   `json:"note"`
	URL     string   `json:"url"`
	Browser *Browser `json:"browser,omitempty"`
	Email   string   `json:"email,omitempty"`
	Img     string   `json:"img,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Browser carries the submitter's browser details
type Browser struct {
	UserAgent string `json:"userAgent"`
}

// debugLog prints messages only when RELAY_DEBUG is set to true
func debugLog(format string, args ...interface{}) {
	debugMode := false
	debugEnv := os.Getenv("RELAY_DEBUG")
	if debugEnv != "" {
		parsedValue, err := strconv.ParseBool(debugEnv)
		if err == nil {
			debugMode = parsedValue
		}
	}

	if debugMode {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Define command line flags for the feedback submitter
	endpointPtr := flag.String("endpoint", "", "URL of the feedback relay (can also be set via FEEDBACK_RELAY_ENDPOINT environment variable)")
	repoPtr := flag.String("repo", "", "repo id the feedback is for (the project or board homepage URL)")
	titlePtr := flag.String("title", "", "issue title (defaults to the note)")
	notePtr := flag.String("note", "", "feedback note (required)")
	urlPtr := flag.String("url", "", "URL the feedback was captured on")
	emailPtr := flag.String("email", "", "submitter email or @handle")
	imgPtr := flag.String("img", "", "path to a screenshot file to attach")
	tagsPtr := flag.String("tags", "", "comma-separated label names")
	agentPtr := flag.String("useragent", "", "user agent string to report")

	flag.Parse()

	endpoint := *endpointPtr
	if endpoint == "" {
		endpoint = os.Getenv("FEEDBACK_RELAY_ENDPOINT")
	}
	if endpoint == "" {
		fmt.Println("Error: relay endpoint is required (use -endpoint or FEEDBACK_RELAY_ENDPOINT)")
		os.Exit(1)
	}
	// The relay serves submissions on "/" exactly.
	endpoint = strings.TrimSuffix(endpoint, "/")

	if *repoPtr == "" || *notePtr == "" || *urlPtr == "" {
		fmt.Println("Error: -repo, -note and -url are required")
		os.Exit(1)
	}

	payload := Payload{
		RepoID: *repoPtr,
		Title:  *titlePtr,
		Note:   *notePtr,
		URL:    *urlPtr,
		Email:  *emailPtr,
	}

	if *agentPtr != "" {
		payload.Browser = &Browser{UserAgent: *agentPtr}
	}

	if *tagsPtr != "" {
		for _, tag := range strings.Split(*tagsPtr, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				payload.Tags = append(payload.Tags, tag)
			}
		}
	}

	if *imgPtr != "" {
		dataURL, err := imageDataURL(*imgPtr)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		payload.Img = dataURL
	}

	debugLog("Submitting feedback for %s to %s\n", payload.RepoID, endpoint)
	sendFeedback(endpoint, payload)
}

// imageDataURL reads an image file and encodes it as a data URL
func imageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading image file: %w", err)
	}

	var contentType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		contentType = "image/png"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	default:
		return "", fmt.Errorf("unsupported image file type: %s", path)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
