package study

import (
	"encoding/json"
	"time"
)

// EventStartRecording is logged when a participant starts speaking
const EventStartRecording = "start_recording"

type recordingMetadata struct {
	LatencyMs float64 `json:"latencyMs"`
}

// RecordingLatencies extracts the prompt-to-recording latency of every
// start_recording event. Events with missing, zero or malformed latency are
// skipped; negative values are kept as logged.
func RecordingLatencies(events []Event) []time.Duration {
	var latencies []time.Duration
	for _, e := range events {
		if e.Name != EventStartRecording || len(e.Metadata) == 0 {
			continue
		}

		var meta recordingMetadata
		if err := json.Unmarshal(e.Metadata, &meta); err != nil {
			continue
		}
		if meta.LatencyMs == 0 {
			continue
		}
		latencies = append(latencies, time.Duration(meta.LatencyMs*float64(time.Millisecond)))
	}
	return latencies
}
