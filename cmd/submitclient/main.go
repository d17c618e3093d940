package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"media-transcription-service/internal/models"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "service base URL")
	id := flag.String("id", "", "media key to transcribe, e.g. interview.mp3")
	language := flag.String("language", "en-US", "transcription language code")
	kind := flag.String("type", "audio", "media type: audio or video")
	poll := flag.Bool("poll", false, "poll for the result after submitting")
	flag.Parse()

	if *id == "" {
		log.Fatal("-id is required")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	req := models.TranscriptionRequest{
		ID:       *id,
		Language: *language,
		Type:     models.MediaKind(*kind),
	}
	body, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("failed to encode request: %v", err)
	}

	resp, err := client.Post(*addr+"/v1/transcripts", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("failed to submit request: %v", err)
	}
	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("submission rejected: %d %s", resp.StatusCode, payload)
	}
	log.Printf("Submitted: %s", payload)

	if !*poll {
		return
	}

	for {
		time.Sleep(5 * time.Second)

		result, err := fetchResult(client, *addr, *id)
		if err != nil {
			log.Fatalf("failed to fetch result: %v", err)
		}

		log.Printf("Status: %s", result.Status)
		if result.Status == models.JobStatusCompleted {
			for _, sentence := range result.Transcript {
				fmt.Printf("[%s - %s]", sentence.StartTime, sentence.EndTime)
				for _, word := range sentence.Words {
					fmt.Printf(" %s", word.Content)
				}
				fmt.Println()
			}
			return
		}
		if result.Status == models.JobStatusFailed {
			log.Fatal("transcription job failed")
		}
	}
}

func fetchResult(client *http.Client, addr, id string) (*models.JobResult, error) {
	resp, err := client.Get(addr + "/v1/transcripts/" + id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var result models.JobResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
