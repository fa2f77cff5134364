package workflow_test

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"drover/journal"
	"drover/taskdoc"
	"drover/workflow"
)

var _ = Describe("Runner", func() {
	var (
		dir      string
		docPath  string
		jrnlPath string
		driver   *fakeDriver
		handler  *runRecorder
	)

	newRunner := func(maxIterations int) *workflow.Runner {
		return &workflow.Runner{
			Driver:        driver,
			Handler:       handler,
			DocumentPath:  docPath,
			JournalPath:   jrnlPath,
			MaxIterations: maxIterations,
			Logger:        hclog.NewNullLogger(),
		}
	}

	writeDoc := func(doc *taskdoc.Document) {
		Expect(taskdoc.Save(docPath, doc)).To(Succeed())
	}

	twoTasks := func() *taskdoc.Document {
		return &taskdoc.Document{
			CollectionName: "feature/x",
			Tasks: []taskdoc.Task{
				{ID: "TASK-001", Title: "one", Description: "d", Priority: 1, AcceptanceCriteria: []string{"c"}},
				{ID: "TASK-002", Title: "two", Description: "d", Priority: 2, AcceptanceCriteria: []string{"c"}},
			},
		}
	}

	markDone := func(id string) func() {
		return func() {
			doc, err := taskdoc.Load(docPath)
			Expect(err).NotTo(HaveOccurred())
			for i := range doc.Tasks {
				if doc.Tasks[i].ID == id {
					doc.Tasks[i].Done = true
				}
			}
			Expect(taskdoc.Save(docPath, doc)).To(Succeed())
		}
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		docPath = filepath.Join(dir, "tasks.json")
		jrnlPath = filepath.Join(dir, "progress.txt")
		driver = &fakeDriver{}
		handler = &runRecorder{}
	})

	It("makes zero driver calls when every task is already done", func() {
		doc := twoTasks()
		doc.Tasks[0].Done = true
		doc.Tasks[1].Done = true
		writeDoc(doc)

		Expect(newRunner(10).Run(context.Background())).To(Succeed())
		Expect(driver.invocations()).To(BeZero())
		Expect(handler.allComplete).To(Equal(1))
		Expect(handler.ended).To(BeZero())
	})

	It("works tasks in priority order and stops when the document is done", func() {
		writeDoc(twoTasks())
		driver.responses = []fakeResponse{
			{hook: markDone("TASK-001")},
			{hook: markDone("TASK-002")},
		}

		Expect(newRunner(10).Run(context.Background())).To(Succeed())
		Expect(driver.invocations()).To(Equal(2))
		Expect(handler.iterStarted).To(Equal([]string{"TASK-001", "TASK-002"}))
		Expect(handler.iterDone).To(Equal([]string{"TASK-001", "TASK-002"}))
		Expect(handler.allComplete).To(Equal(1))

		text, err := journal.Read(jrnlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("Completed: TASK-001"))
		Expect(text).To(ContainSubstring("Completed: TASK-002"))
	})

	It("performs exactly the iteration budget when tasks never complete", func() {
		writeDoc(twoTasks())

		Expect(newRunner(3).Run(context.Background())).To(Succeed())
		Expect(driver.invocations()).To(Equal(3))
		Expect(handler.ended).To(Equal(1))
		Expect(handler.allComplete).To(BeZero())
	})

	It("journals a failure and keeps iterating", func() {
		writeDoc(twoTasks())
		driver.responses = []fakeResponse{
			{err: errors.New("agent crashed")},
			{hook: markDone("TASK-001")},
			{hook: markDone("TASK-002")},
		}

		Expect(newRunner(10).Run(context.Background())).To(Succeed())
		Expect(driver.invocations()).To(Equal(3))
		Expect(handler.iterFailed).To(Equal([]string{"TASK-001"}))
		Expect(handler.iterDone).To(Equal([]string{"TASK-001", "TASK-002"}))

		text, err := journal.Read(jrnlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("Failed: TASK-001\nError: agent crashed"))
	})

	It("embeds the journal history in the next iteration's prompt", func() {
		writeDoc(twoTasks())
		driver.responses = []fakeResponse{
			{hook: markDone("TASK-001")},
			{hook: markDone("TASK-002")},
		}

		Expect(newRunner(10).Run(context.Background())).To(Succeed())
		Expect(driver.prompts[0]).To(ContainSubstring("(none yet)"))
		Expect(driver.prompts[1]).To(ContainSubstring("Completed: TASK-001"))
	})

	It("anchors relative paths on the agent working directory", func() {
		writeDoc(twoTasks())
		driver.responses = []fakeResponse{
			{hook: markDone("TASK-001")},
			{hook: markDone("TASK-002")},
		}

		runner := &workflow.Runner{
			Driver:        driver,
			Handler:       handler,
			Dir:           dir,
			DocumentPath:  "tasks.json",
			JournalPath:   "progress.txt",
			MaxIterations: 10,
			Logger:        hclog.NewNullLogger(),
		}

		// The loop must observe the done flips the driver applied under dir,
		// and journal next to the document rather than in the invoker's cwd.
		Expect(runner.Run(context.Background())).To(Succeed())
		Expect(driver.invocations()).To(Equal(2))
		Expect(handler.allComplete).To(Equal(1))

		text, err := journal.Read(jrnlPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(ContainSubstring("Completed: TASK-002"))
	})

	It("fails fast when the document is missing", func() {
		Expect(newRunner(5).Run(context.Background())).To(HaveOccurred())
		Expect(driver.invocations()).To(BeZero())
	})

	It("stops when the context is cancelled", func() {
		writeDoc(twoTasks())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Expect(newRunner(5).Run(ctx)).To(MatchError(context.Canceled))
		Expect(driver.invocations()).To(BeZero())
	})
})

var _ = Describe("Remaining", func() {

	It("counts open tasks", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "tasks.json")
		doc := &taskdoc.Document{
			CollectionName: "x",
			Tasks: []taskdoc.Task{
				{ID: "A", Title: "t", Description: "d", Priority: 1, Done: true, AcceptanceCriteria: []string{"c"}},
				{ID: "B", Title: "t", Description: "d", Priority: 2, AcceptanceCriteria: []string{"c"}},
			},
		}
		Expect(taskdoc.Save(path, doc)).To(Succeed())

		n, err := workflow.Remaining(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
	})
})
