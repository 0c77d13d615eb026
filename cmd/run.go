package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-compass/internal/logger"
	"github.com/spigell/career-compass/internal/profile"
	"github.com/spigell/career-compass/internal/session"
	"github.com/spigell/career-compass/internal/skills"
)

const (
	PromptSignIn    = "Sign in"
	PromptSignUp    = "Sign up"
	PromptDashboard = "Dashboard"
	PromptProfile   = "Profile"
	PromptSkills    = "Skills assessment"
	PromptCareers   = "Career recommendations"
	PromptHub       = "Learning hub"
	PromptLogout    = "Logout"
	PromptExit      = "Exit"
	PromptBack      = "back"
	PromptDone      = "done"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive career guidance session",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("mode", "m", "", "backend mode: http or direct")
	runCmd.Flags().StringP("backend-url", "u", "", "advisory service base url")

	viper.BindPFlag("backend.mode", runCmd.Flags().Lookup("mode"))
	viper.BindPFlag("backend.url", runCmd.Flags().Lookup("backend-url"))
}

// run is the main command for the cli.
func run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-compass", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	b, err := newBackend(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the advisory backend", zap.Error(err))
	}

	store := session.New(b, session.Options{
		Mode:               config.Backend.Mode,
		InterviewQuestions: config.Interview.Questions,
		Logger:             logger,
	})
	defer store.Close()

	ui := &terminal{ctx: ctx, store: store, logger: logger}
	if err := ui.loop(); err != nil && !errors.Is(err, errExit) {
		logger.Fatal("exiting", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "session closed"))
}

// redacted returns a copy of config safe for logging.
func redacted(config *Config) Config {
	out := *config
	if config.Backend != nil && config.Backend.Token != "" {
		b := *config.Backend
		b.Token = "***"
		out.Backend = &b
	}
	if config.AI != nil && config.AI.Gemini != nil && config.AI.Gemini.APIKey != "" {
		a := *config.AI
		g := *config.AI.Gemini
		g.APIKey = "***"
		a.Gemini = &g
		out.AI = &a
	}
	return out
}

// terminal drives a session.Store from promptui menus.
type terminal struct {
	ctx    context.Context
	store  *session.Store
	logger *zap.Logger
}

func (t *terminal) loop() error {
	for {
		if err := t.ctx.Err(); err != nil {
			return errExit
		}

		var err error
		if !t.store.User().SignedIn {
			err = t.welcome()
		} else {
			err = t.mainMenu()
		}

		switch {
		case err == nil:
		case errors.Is(err, errExit), errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			return errExit
		case errors.Is(err, promptui.ErrAbort):
		default:
			return err
		}
	}
}

func (t *terminal) welcome() error {
	action, err := choose("Welcome to Career Compass", []string{PromptSignIn, PromptSignUp, PromptExit})
	if err != nil {
		return err
	}

	switch action {
	case PromptSignIn:
		email, err := ask("Email", "", required)
		if err != nil {
			return err
		}
		return t.store.SignIn(email)
	case PromptSignUp:
		name, err := ask("Name", "", required)
		if err != nil {
			return err
		}
		ageText, err := ask("Age", "", integer)
		if err != nil {
			return err
		}
		age, _ := strconv.Atoi(ageText)
		email, err := ask("Email", "", nil)
		if err != nil {
			return err
		}
		if err := t.store.SignUp(name, age, email); err != nil {
			return err
		}
		return t.editProfile()
	default:
		return errExit
	}
}

func (t *terminal) mainMenu() error {
	items := []string{PromptDashboard, PromptProfile, PromptSkills, PromptCareers, PromptHub, PromptLogout, PromptExit}
	action, err := chooseAt(fmt.Sprintf("Hello, %s", t.store.User().Name), items, tabCursor(t.store.Tab()))
	if err != nil {
		return err
	}

	switch action {
	case PromptDashboard:
		t.store.SetTab(session.TabDashboard)
		t.dashboard()
		return nil
	case PromptProfile:
		return t.editProfile()
	case PromptSkills:
		return t.assessSkills()
	case PromptCareers:
		return t.careers()
	case PromptHub:
		return t.hub()
	case PromptLogout:
		t.store.Logout()
		return nil
	default:
		return errExit
	}
}

func tabCursor(tab session.Tab) int {
	switch tab {
	case session.TabProfile:
		return 1
	case session.TabSkills:
		return 2
	case session.TabCareers:
		return 3
	case session.TabHub:
		return 4
	default:
		return 0
	}
}

func (t *terminal) dashboard() {
	stats := t.store.Stats()

	fmt.Printf("\n%s's dashboard\n", stats.UserName)
	if stats.HasProfile {
		fmt.Println("  Profile: complete")
	} else {
		fmt.Println("  Profile: not filled in yet")
	}
	fmt.Printf("  Skills rated: %d, average level %.1f, strong skills %d\n",
		stats.Skills.Total, stats.Skills.Average, stats.Skills.Strong)
	fmt.Printf("  Career recommendations: %d\n", stats.Recommendations)
	if stats.Best != nil {
		fmt.Printf("  Best match: %s (%d%%)\n", stats.Best.Title, stats.Best.MatchScore)
	}
	fmt.Println()
}

func (t *terminal) editProfile() error {
	t.store.SetTab(session.TabProfile)

	p := profile.Profile{Name: t.store.User().Name, Age: t.store.User().Age}
	if saved := t.store.Profile(); saved != nil {
		p = *saved
	}

	var err error
	if p.Name, err = ask("Full name", p.Name, required); err != nil {
		return err
	}

	ageText, err := ask("Age (15-35)", strconv.Itoa(p.Age), integer)
	if err != nil {
		return err
	}
	p.Age, _ = strconv.Atoi(ageText)

	if p.Education, err = choose("Current education", profile.EducationLevels); err != nil {
		return err
	}
	if p.Location, err = ask("Location", p.Location, nil); err != nil {
		return err
	}
	if p.Interests, err = chooseMany("Interests (at least 3)", profile.Interests); err != nil {
		return err
	}
	if p.Strengths, err = chooseMany("Strengths (at least 3)", profile.Strengths); err != nil {
		return err
	}
	if p.PreferredIndustries, err = chooseMany("Preferred industries (at least 2)", profile.Industries); err != nil {
		return err
	}

	if err := t.store.SaveProfile(p); err != nil {
		fmt.Printf("Profile not saved: %s\n", err)
		return nil
	}

	fmt.Println("Profile saved. Next: rate your skills.")
	return t.assessSkills()
}

func (t *terminal) assessSkills() error {
	t.store.SetTab(session.TabSkills)
	w := t.store.SkillsWizard()

	levels := make([]string, 0, skills.MaxLevel)
	for l := skills.MinLevel; l <= skills.MaxLevel; l++ {
		levels = append(levels, strconv.Itoa(l))
	}

	for {
		step := w.Step()
		fmt.Printf("\nStep %d of %d: %s\n", w.Index()+1, w.Len(), step.Name)

		draft := w.Draft()
		values := make(map[string]any, len(step.Fields))
		for _, name := range step.Fields {
			current := skills.DefaultLevel
			for _, r := range draft {
				if lvl, ok := r.Level(name); ok {
					current = lvl
				}
			}

			picked, err := chooseAt(name, levels, current-skills.MinLevel)
			if err != nil {
				return err
			}
			values[name] = picked
		}

		nav := []string{"Next", "Previous"}
		if w.IsTerminal() {
			nav = []string{"Get career recommendations", "Previous"}
		}
		action, err := choose("Continue", nav)
		if err != nil {
			return err
		}

		switch {
		case action == "Previous":
			if err := w.Update(values); err != nil {
				return err
			}
			w.Retreat()
		case w.IsTerminal():
			fmt.Println("Analyzing your profile...")
			if err := w.Finish(t.ctx, values); err != nil && !errors.Is(err, session.ErrSuperseded) {
				fmt.Println(t.store.Snapshot().Error)
			}
			return t.careers()
		default:
			if err := w.Advance(values); err != nil {
				return err
			}
		}
	}
}

func (t *terminal) careers() error {
	t.store.SetTab(session.TabCareers)

	for {
		snap := t.store.Snapshot()
		if snap.Error != "" {
			fmt.Printf("Error: %s\n", snap.Error)
		}
		if len(snap.Recommendations) == 0 {
			fmt.Println("No recommendations yet. Complete the skills assessment first.")
			return nil
		}

		items := make([]string, 0, len(snap.Recommendations)+1)
		for _, c := range snap.Recommendations {
			items = append(items, fmt.Sprintf("%s %s (%d%% match)", c.ID, c.Title, c.MatchScore))
		}

		picked, err := choose("Choose a career and press ENTER", append(items, PromptBack))
		if err != nil || picked == PromptBack {
			return err
		}

		if err := t.careerDetail(strings.Fields(picked)[0]); err != nil {
			return err
		}
	}
}

func (t *terminal) careerDetail(id string) error {
	c, err := t.store.Career(id)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s (%s)\n%s\n", strings.ToUpper(c.Title), c.Industry, c.Description)
	fmt.Printf("  Salary: %s  Growth: %s  Openings: %s  Work-life balance: %d/10\n",
		c.SalaryRange, c.GrowthRate, c.JobOpenings, c.WorkLifeBalance)
	printList("Locations", c.Locations)
	printList("Required education", c.RequiredEducation)
	printList("Top companies", c.TopCompanies)
	printList("Emerging trends", c.EmergingTrends)

	gaps, _ := t.store.GapReport(id)
	if len(gaps) > 0 {
		fmt.Println("  Key skills:")
		for _, g := range gaps {
			mark := ""
			if g.Gap {
				mark = "  <- gap"
			}
			fmt.Printf("    %-30s %3d%%%s\n", g.Skill, g.Proficiency, mark)
		}
	}

	action, err := choose("Next", []string{"Find certifications for this career", PromptBack})
	if err != nil || action == PromptBack {
		return err
	}

	t.store.SetTab(session.TabHub)
	t.store.SetView(session.ViewCertifications)
	defer t.store.SetView(session.ViewMain)
	return t.showCertifications(c.Title)
}

func printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("  %s: %s\n", label, strings.Join(items, ", "))
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return session.ErrEmptyInput
	}
	return nil
}

func integer(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a whole number")
	}
	return nil
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, AllowEdit: def != "", Validate: validate}
	out, err := p.Run()
	return strings.TrimSpace(out), err
}

func choose(label string, items []string) (string, error) {
	return chooseAt(label, items, 0)
}

func chooseAt(label string, items []string, cursor int) (string, error) {
	s := promptui.Select{Label: label, Items: items, Size: 10, CursorPos: cursor}
	_, picked, err := s.Run()
	return picked, err
}

// chooseMany toggles options until done is picked.
func chooseMany(label string, options []string) ([]string, error) {
	picked := map[string]bool{}
	for {
		items := make([]string, 0, len(options)+1)
		items = append(items, PromptDone)
		for _, o := range options {
			mark := "[ ] "
			if picked[o] {
				mark = "[x] "
			}
			items = append(items, mark+o)
		}

		choice, err := choose(label, items)
		if err != nil {
			return nil, err
		}
		if choice == PromptDone {
			break
		}
		option := choice[4:]
		picked[option] = !picked[option]
	}

	out := make([]string, 0, len(picked))
	for _, o := range options {
		if picked[o] {
			out = append(out, o)
		}
	}
	return out, nil
}
