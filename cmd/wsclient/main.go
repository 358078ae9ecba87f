// Manual test client: streams an audio file to a running relay server the
// way the browser recorder does, sends stop_recording, and prints every
// frame pushed back.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:3000", "relay server host")
	audioPath := flag.String("audio", "sample_audio.webm", "audio file to stream")
	flag.Parse()

	sessionID := uuid.NewString()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *host, Path: "/ws"}
	q := u.Query()
	q.Set("sessionId", sessionID)
	u.RawQuery = q.Encode()
	log.Printf("connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go handleIncomingFrames(c, done)

	streamAudio(c, *audioPath)

	select {
	case <-done:
		return
	case <-interrupt:
		log.Println("interrupt")
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.Println("write close:", err)
			return
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return
	}
}

func streamAudio(c *websocket.Conn, audioPath string) {
	audioFileData, err := os.ReadFile(audioPath)
	if err != nil {
		log.Printf("Error reading audio file: %v", err)
		return
	}

	log.Printf("Read audio file: %s (%d bytes)", audioPath, len(audioFileData))

	// Mimic MediaRecorder: one binary frame every 100ms
	chunkSize := 4096
	totalChunks := (len(audioFileData) + chunkSize - 1) / chunkSize

	log.Printf("Sending %d audio fragments (chunk size: %d bytes)", totalChunks, chunkSize)

	for i := 0; i < totalChunks; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(audioFileData) {
			end = len(audioFileData)
		}

		if err := c.WriteMessage(websocket.BinaryMessage, audioFileData[start:end]); err != nil {
			log.Printf("Error sending audio fragment %d: %v", i, err)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	stopMessage := map[string]interface{}{
		"type": "stop_recording",
	}
	data, err := json.Marshal(stopMessage)
	if err != nil {
		log.Printf("Error marshaling stop message: %v", err)
		return
	}
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("Error sending stop_recording: %v", err)
		return
	}

	log.Println("Sent stop_recording, waiting for frames...")
}

func handleIncomingFrames(c *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Println("read:", err)
			return
		}

		if messageType != websocket.TextMessage {
			log.Printf("Received unexpected message type: %d", messageType)
			continue
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Println("unmarshal error:", err)
			continue
		}

		switch msg["type"] {
		case "transcript":
			log.Printf("Transcript: %v", msg["text"])
		case "error":
			log.Printf("Error frame: %v", msg["message"])
		case "bot_message":
			log.Printf("Bot message: %s", mustCompact(msg["data"]))
		default:
			log.Printf("Received unknown frame: %s", string(message))
		}
	}
}

func mustCompact(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
