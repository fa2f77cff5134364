package wsbridge_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"drover/taskdoc"
	"drover/wsbridge"
)

var _ = Describe("Hub", func() {
	var (
		hub    *wsbridge.Hub
		server *httptest.Server
		conn   *websocket.Conn
	)

	dial := func() *websocket.Conn {
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	// readEnvelope reads until it sees the wanted event type, skipping any
	// envelopes queued up earlier in the test.
	readEnvelope := func(c *websocket.Conn, wantType string) wsbridge.Envelope {
		for {
			c.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, payload, err := c.ReadMessage()
			Expect(err).NotTo(HaveOccurred())
			var env wsbridge.Envelope
			Expect(json.Unmarshal(payload, &env)).To(Succeed())
			if env.Type == wantType {
				return env
			}
		}
	}

	BeforeEach(func() {
		hub = wsbridge.NewHub(hclog.NewNullLogger())
		server = httptest.NewServer(hub)
		conn = dial()
	})

	AfterEach(func() {
		conn.Close()
		hub.Close()
		server.Close()
	})

	It("broadcasts envelopes with type, data, and timestamp", func() {
		// The upgrade completes before Dial returns, but registration runs in
		// the server goroutine; poll until the client sees the event.
		Eventually(func() error {
			hub.Broadcast("run_started", map[string]interface{}{"collection": "feature/x"})
			conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
			_, _, err := conn.ReadMessage()
			return err
		}, 2*time.Second).Should(Succeed())
	})

	It("delivers handler events as JSON envelopes", func() {
		handler := wsbridge.NewHandler(hub)

		Eventually(func() error {
			hub.Broadcast("ping", nil)
			conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
			_, _, err := conn.ReadMessage()
			return err
		}, 2*time.Second).Should(Succeed())

		handler.IterationStarted(1, 5, &taskdoc.Task{ID: "TASK-001", Title: "scaffold"})
		env := readEnvelope(conn, "iteration_started")

		Expect(env.Type).To(Equal("iteration_started"))
		Expect(env.TS).NotTo(BeZero())
		data := env.Data.(map[string]interface{})
		Expect(data["taskId"]).To(Equal("TASK-001"))
		Expect(data["title"]).To(Equal("scaffold"))
	})
})
