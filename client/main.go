// Interactive test client: create or join a lobby, then drive it from
// stdin ("ready", "start", "cut <player>", "leave").
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

var (
	host  = flag.String("host", "localhost:8080", "game server address")
	lobby = flag.String("lobby", "", "lobby code to join (empty to create)")
	name  = flag.String("name", "tester", "player name")
)

type client struct {
	http *http.Client
	host string
}

func (c *client) get(path string, query url.Values) (string, error) {
	u := url.URL{Scheme: "http", Host: c.host, Path: path, RawQuery: query.Encode()}
	resp, err := c.http.Get(u.String())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

// stream opens the websocket event stream at path, forwarding the session
// cookie, and prints every event frame until the stream closes.
func (c *client) stream(path string, done chan<- struct{}) (*websocket.Conn, error) {
	u := url.URL{Scheme: "ws", Host: c.host, Path: path}
	header := http.Header{}
	cookieURL := &url.URL{Scheme: "http", Host: c.host, Path: "/"}
	for _, cookie := range c.http.Jar.Cookies(cookieURL) {
		header.Add("Cookie", cookie.String())
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		return nil, err
	}

	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Println("Stream closed:", err)
				return
			}
			log.Printf("<- %s", message)
		}
	}()

	return conn, nil
}

func main() {
	flag.Parse()

	jar, _ := cookiejar.New(nil)
	c := &client{http: &http.Client{Jar: jar}, host: *host}

	var (
		body string
		err  error
	)
	if *lobby == "" {
		body, err = c.get("/lobby/create", url.Values{"name": {*name}})
	} else {
		body, err = c.get("/lobby/join", url.Values{"lobby": {*lobby}, "name": {*name}})
	}
	if err != nil {
		log.Fatalf("Join failed: %v", err)
	}
	log.Printf("Joined: %s", strings.TrimSpace(body))

	done := make(chan struct{})
	conn, err := c.stream("/lobby/events", done)
	if err != nil {
		log.Fatalf("Stream failed: %v", err)
	}
	defer conn.Close()

	log.Println("Commands: ready | unready | start | cut <player> | leave | quit")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			// The lobby stream ends on start; switch to the game stream.
			done = make(chan struct{})
			conn, err = c.stream("/game/events", done)
			if err != nil {
				log.Fatalf("Game stream failed: %v", err)
			}
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "ready":
			_, err = c.get("/lobby/ready", url.Values{"state": {"true"}})
		case "unready":
			_, err = c.get("/lobby/ready", url.Values{"state": {"false"}})
		case "start":
			_, err = c.get("/lobby/start", nil)
		case "cut":
			if len(fields) < 2 {
				log.Println("Usage: cut <player>")
				continue
			}
			_, err = c.get("/game/cut", url.Values{"player": {fields[1]}})
		case "leave":
			_, err = c.get("/lobby/leave", nil)
		case "quit":
			return
		default:
			log.Printf("Unknown command %q", fields[0])
			continue
		}
		if err != nil {
			log.Println("Request failed:", err)
		}
	}
}
