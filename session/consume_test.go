package session_test

import (
	"errors"

	"github.com/hashicorp/go-hclog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"drover/session"
)

// recordingObserver captures callbacks in arrival order.
type recordingObserver struct {
	started []string
	text    []string
	tools   []string
	done    int
}

func (r *recordingObserver) OnSessionStarted(id string) { r.started = append(r.started, id) }
func (r *recordingObserver) OnAgentText(text string)    { r.text = append(r.text, text) }
func (r *recordingObserver) OnToolInvoked(name string)  { r.tools = append(r.tools, name) }
func (r *recordingObserver) OnCompleted(int64, int)     { r.done++ }

func feed(events ...session.Event) <-chan session.Event {
	ch := make(chan session.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

var _ = Describe("Consume", func() {
	var logger hclog.Logger

	BeforeEach(func() {
		logger = hclog.NewNullLogger()
	})

	It("accumulates text fragments in arrival order", func() {
		text, err := session.Consume(feed(
			session.SessionStarted{SessionID: "s-1"},
			session.AgentText{Text: "hello "},
			session.AgentText{Text: "world"},
			session.Completed{DurationMs: 10, TurnCount: 2},
		), session.NopObserver{}, logger)

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("hello world"))
	})

	It("fails on an error result even when text was accumulated first", func() {
		_, err := session.Consume(feed(
			session.AgentText{Text: "partial progress"},
			session.Completed{IsError: true, ErrorMessage: "context limit exceeded"},
		), session.NopObserver{}, logger)

		Expect(err).To(MatchError(ContainSubstring("context limit exceeded")))
	})

	It("reports an empty message for an error result without one", func() {
		_, err := session.Consume(feed(
			session.Completed{IsError: true},
		), session.NopObserver{}, logger)

		Expect(err).To(MatchError("agent session failed: "))
	})

	It("keeps draining past transport errors", func() {
		text, err := session.Consume(feed(
			session.AgentText{Text: "a"},
			session.TransportError{Err: errors.New("bad line")},
			session.AgentText{Text: "b"},
			session.Completed{},
		), session.NopObserver{}, logger)

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("ab"))
	})

	It("treats stream end without a result event as success", func() {
		text, err := session.Consume(feed(
			session.AgentText{Text: "unfinished"},
		), session.NopObserver{}, logger)

		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("unfinished"))
	})

	It("notifies the observer of every lifecycle event", func() {
		obs := &recordingObserver{}
		_, err := session.Consume(feed(
			session.SessionStarted{SessionID: "s-9"},
			session.AgentText{Text: "t"},
			session.ToolInvoked{Name: "edit_file"},
			session.Completed{DurationMs: 5, TurnCount: 1},
		), obs, logger)

		Expect(err).NotTo(HaveOccurred())
		Expect(obs.started).To(Equal([]string{"s-9"}))
		Expect(obs.text).To(Equal([]string{"t"}))
		Expect(obs.tools).To(Equal([]string{"edit_file"}))
		Expect(obs.done).To(Equal(1))
	})
})
