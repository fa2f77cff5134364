package journal_test

import (
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"drover/journal"
)

var _ = Describe("Journal", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "progress.txt")
	})

	Describe("Read", func() {
		It("returns empty for a missing file", func() {
			text, err := journal.Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())
		})
	})

	Describe("AppendCompleted", func() {
		It("creates the file and writes a timestamped entry", func() {
			Expect(journal.AppendCompleted(path, "TASK-001")).To(Succeed())

			text, err := journal.Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(MatchRegexp(`\n## \[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] Completed: TASK-001\n`))
		})
	})

	Describe("AppendFailed", func() {
		It("includes the failure reason on its own line", func() {
			Expect(journal.AppendFailed(path, "TASK-002", errors.New("agent gave up"))).To(Succeed())

			text, err := journal.Read(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(ContainSubstring("Failed: TASK-002\nError: agent gave up\n"))
		})
	})

	It("appends without rewriting earlier entries", func() {
		Expect(journal.AppendCompleted(path, "A")).To(Succeed())
		first, _ := journal.Read(path)

		Expect(journal.AppendFailed(path, "B", errors.New("boom"))).To(Succeed())
		both, _ := journal.Read(path)

		Expect(both).To(HavePrefix(first))
		Expect(both).To(ContainSubstring("Completed: A"))
		Expect(both).To(ContainSubstring("Failed: B"))
	})
})
