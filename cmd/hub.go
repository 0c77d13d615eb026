package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/backend"
	"github.com/spigell/career-compass/internal/chat"
	"github.com/spigell/career-compass/internal/interview"
	"github.com/spigell/career-compass/internal/resume"
	"github.com/spigell/career-compass/internal/session"
)

var viewLabels = map[session.View]string{
	session.ViewChat:           "Chat with the learning assistant",
	session.ViewCertifications: "Certification recommendations",
	session.ViewJobListings:    "Job listings",
	session.ViewInterview:      "Mock interview",
	session.ViewResume:         "Resume builder",
}

func (t *terminal) hub() error {
	t.store.SetTab(session.TabHub)

	items := make([]string, 0, len(session.Views)+1)
	for _, v := range session.Views {
		items = append(items, viewLabels[v])
	}

	for {
		picked, err := choose("Learning hub", append(items, PromptBack))
		if err != nil || picked == PromptBack {
			return err
		}

		var view session.View
		for v, label := range viewLabels {
			if label == picked {
				view = v
			}
		}

		if err := t.openView(view); err != nil {
			return err
		}
	}
}

func (t *terminal) openView(view session.View) error {
	t.store.SetView(view)
	defer t.store.SetView(session.ViewMain)

	switch view {
	case session.ViewChat:
		return t.chat()
	case session.ViewCertifications:
		title, err := ask("Career title", "", required)
		if err != nil {
			return err
		}
		return t.showCertifications(title)
	case session.ViewJobListings:
		return t.jobListings()
	case session.ViewInterview:
		return t.interview()
	case session.ViewResume:
		return t.resume()
	}
	return nil
}

func (t *terminal) chat() error {
	printMessages(t.store.Chat().Transcript())

	for {
		text, err := ask("You (empty to leave)", "", nil)
		if err != nil || text == "" {
			return err
		}

		before := len(t.store.Chat().Transcript())
		err = t.store.SendChat(t.ctx, text)
		// Skip the echoed user message.
		if transcript := t.store.Chat().Transcript(); len(transcript) > before+1 {
			printMessages(transcript[before+1:])
		}
		if backend.IsCanceled(err) {
			return nil
		}
	}
}

func printMessages(messages []chat.Message) {
	for _, m := range messages {
		fmt.Printf("%s: %s\n\n", m.Sender, m.Text)
	}
}

func (t *terminal) showCertifications(title string) error {
	fmt.Println("Fetching certifications...")
	if err := t.store.FetchCertifications(t.ctx, title); err != nil && errors.Is(err, session.ErrEmptyInput) {
		return nil
	}
	printTool("Certifications for "+title, t.store.Certifications())
	return nil
}

func (t *terminal) jobListings() error {
	role, err := ask("Role", "", required)
	if err != nil {
		return err
	}
	location, err := ask("Location", "", required)
	if err != nil {
		return err
	}

	fmt.Println("Searching job portals...")
	_ = t.store.FetchJobListings(t.ctx, role, location)
	printTool("Job listings", t.store.JobListings())
	return nil
}

func printTool(heading string, st session.ToolState) {
	if st.Error != "" {
		fmt.Printf("Error: %s\n", st.Error)
		return
	}

	fmt.Printf("\n%s\n", heading)
	for i, item := range st.Items {
		if item.IsLink() && len(item.Segments) == 1 {
			fmt.Printf("%d. %s\n   %s\n", i+1, item.Text, item.URL)
			continue
		}
		fmt.Printf("%d. %s\n", i+1, item.Text)
	}
	fmt.Println()
}

func (t *terminal) interview() error {
	role, err := ask("Role to practise for", "", required)
	if err != nil {
		return err
	}

	fmt.Println("Preparing questions...")
	if err := t.store.StartInterview(t.ctx, role); err != nil {
		if msg := t.store.Interview().Snapshot().Error; msg != "" {
			fmt.Printf("Error: %s\n", msg)
		}
		return nil
	}

	flow := t.store.Interview()
	for {
		snap := flow.Snapshot()
		fmt.Printf("\nQuestion %d of %d: %s\n", snap.Index+1, snap.Total, snap.Question)

		answer, err := ask("Your answer", snap.Draft, nil)
		if err != nil {
			return err
		}
		if err := flow.SetDraft(answer); err != nil {
			return err
		}
		if err := flow.Reveal(); err != nil {
			return err
		}

		snap = flow.Snapshot()
		fmt.Printf("Suggested answer: %s\n", snap.Answer)

		if snap.State == interview.Finished {
			fmt.Println("Interview complete.")
			flow.Reset()
			return nil
		}

		action, err := choose("Continue", []string{"Next question", PromptBack})
		if err != nil || action == PromptBack {
			return err
		}
		if err := flow.Advance(); err != nil {
			return err
		}
	}
}

func (t *terminal) resume() error {
	b := t.store.Resume()

	for {
		snap := b.Snapshot()
		fmt.Printf("\nStep %d of %d: %s\n", snap.Index+1, snap.Total, snap.Step)

		values, err := t.resumeStep(snap)
		if err != nil {
			return err
		}

		nav := []string{"Next", "Previous", PromptBack}
		if b.IsTerminal() {
			nav = []string{"Generate resume", "Previous", PromptBack}
		}
		action, err := choose("Continue", nav)
		if err != nil {
			return err
		}

		switch {
		case action == PromptBack:
			return b.Update(values)
		case action == "Previous":
			if err := b.Update(values); err != nil {
				return err
			}
			b.Retreat()
		case b.IsTerminal():
			if err := t.store.FinishResume(t.ctx, values); err != nil {
				fmt.Printf("Error: %s\n", resumeError(b, err))
				continue
			}
			return t.resumePreview()
		default:
			if err := b.Advance(values); err != nil {
				return err
			}
		}
	}
}

func resumeError(b *resume.Builder, err error) string {
	if msg := b.Snapshot().Error; msg != "" {
		return msg
	}
	return err.Error()
}

func (t *terminal) resumeStep(snap resume.Snapshot) (map[string]any, error) {
	values := map[string]any{}
	draft := snap.Draft

	switch snap.Step {
	case resume.StepExperience:
		experiences, err := collect("work experience", []string{"job_title", "company", "location", "start_date", "end_date", "achievements"})
		if err != nil {
			return nil, err
		}
		if len(experiences) > 0 {
			values["experiences"] = experiences
		}
	case resume.StepSummary:
		action, err := choose("Professional summary", []string{"Write it myself", "Generate with AI"})
		if err != nil {
			return nil, err
		}
		if action == "Generate with AI" {
			fmt.Println("Generating summary...")
			summary, err := t.store.GenerateSummary(t.ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", resumeError(t.store.Resume(), err))
				return values, nil
			}
			fmt.Printf("Summary: %s\n", summary)
			return values, nil
		}
		text, err := ask("Summary", draftString(draft, "summary"), nil)
		if err != nil {
			return nil, err
		}
		values["summary"] = text
	case resume.StepEducation:
		education, err := collect("education", []string{"degree", "institution", "location", "graduation_date", "honors"})
		if err != nil {
			return nil, err
		}
		if len(education) > 0 {
			values["education"] = education
		}
	case resume.StepProjects:
		projects, err := collect("project", []string{"title", "description", "technologies", "role"})
		if err != nil {
			return nil, err
		}
		if len(projects) > 0 {
			values["projects"] = projects
		}
	default:
		for _, field := range stepFields(snap.Step) {
			label := strings.ReplaceAll(field, "_", " ")
			if isListField(field) {
				label += " (comma separated)"
			}
			text, err := ask(label, draftString(draft, field), nil)
			if err != nil {
				return nil, err
			}
			values[field] = text
		}
	}

	return values, nil
}

func stepFields(name string) []string {
	for _, step := range resume.Steps {
		if step.Name == name {
			return step.Fields
		}
	}
	return nil
}

func isListField(field string) bool {
	switch field {
	case "skills", "certifications", "languages", "hobbies":
		return true
	}
	return false
}

func draftString(d resume.Draft, field string) string {
	switch v := d[field].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	}
	return ""
}

// collect asks for repeated entries until the user declines another one.
func collect(what string, fields []string) ([]map[string]any, error) {
	var out []map[string]any
	for {
		action, err := choose(fmt.Sprintf("Add %s? (%d added)", what, len(out)), []string{"Add", PromptDone})
		if err != nil {
			return nil, err
		}
		if action == PromptDone {
			return out, nil
		}

		entry := make(map[string]any, len(fields))
		for _, field := range fields {
			text, err := ask(strings.ReplaceAll(field, "_", " "), "", nil)
			if err != nil {
				return nil, err
			}
			entry[field] = text
		}
		out = append(out, entry)
	}
}

func (t *terminal) resumePreview() error {
	snap := t.store.Resume().Snapshot()

	text, err := resume.Preview(snap.HTML)
	if err != nil {
		t.logger.Warn("rendering resume preview", zap.Error(err))
	} else {
		fmt.Printf("\n%s\n\n", text)
	}

	action, err := choose("Resume ready", []string{"Download PDF", "Save HTML", PromptBack})
	if err != nil || action == PromptBack {
		return err
	}

	var data []byte
	name := "resume.html"
	if action == "Download PDF" {
		fmt.Println("Exporting PDF...")
		pdf, err := t.store.ExportResumePDF(t.ctx)
		if err != nil {
			fmt.Printf("Error: %s\n", resumeError(t.store.Resume(), err))
			return nil
		}
		data, name = pdf, "resume.pdf"
	} else {
		data = []byte(snap.HTML)
	}

	path, err := ask("Save as", name, required)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving resume: %w", err)
	}

	t.logger.Info("resume saved", zap.String("filename", path), zap.Int("bytes", len(data)))
	return nil
}
