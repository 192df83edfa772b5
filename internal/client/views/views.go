// Package views renders client state to terminal strings. Every
// function is a pure map from state values to a string; no mutation,
// no I/O.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"devlink/internal/client/state"
	"devlink/internal/domain/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)
)

const timeLayout = "2006-01-02 15:04"

// ErrorBanner renders one error message, or "" for an empty message.
func ErrorBanner(msg string) string {
	if msg == "" {
		return ""
	}
	return errorStyle.Render("✗ " + msg)
}

// Feed renders the post list, newest first as given.
func Feed(s state.PostsSlice) string {
	if s.Err != "" {
		return ErrorBanner(s.Err)
	}
	if len(s.Posts) == 0 {
		return metaStyle.Render("No posts yet.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Feed"))
	b.WriteString("\n")
	for _, p := range s.Posts {
		b.WriteString(renderPostLine(p))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderPostLine(p models.Post) string {
	meta := fmt.Sprintf("%s · %d likes · %d comments · %s",
		p.Date.Format(timeLayout), len(p.Likes), len(p.Comments), p.ID.Hex())
	return fmt.Sprintf("%s %s\n  %s",
		authorStyle.Render(p.Name), metaStyle.Render(meta), p.Text)
}

// PostDetail renders one open post with its comments.
func PostDetail(s state.PostDetailSlice) string {
	if s.Err != "" {
		return ErrorBanner(s.Err)
	}
	if !s.Loaded {
		return metaStyle.Render("No post selected.")
	}

	var b strings.Builder
	b.WriteString(renderPostLine(s.Post))
	if len(s.Post.Comments) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Comments"))
		for _, c := range s.Post.Comments {
			b.WriteString("\n")
			b.WriteString(fmt.Sprintf("  %s %s\n    %s",
				authorStyle.Render(c.Name),
				metaStyle.Render(c.Date.Format(timeLayout)+" · "+c.ID.Hex()),
				c.Text))
		}
	}
	return cardStyle.Render(b.String())
}

// ProfileCard renders one profile with its owner line.
func ProfileCard(p models.ProfileWithOwner) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Owner.Name))
	if p.Status != "" {
		b.WriteString(" " + metaStyle.Render("— "+p.Status))
	}
	if p.Company != "" {
		b.WriteString("\n" + metaStyle.Render("at "+p.Company))
	}
	if p.Location != "" {
		b.WriteString("\n" + metaStyle.Render(p.Location))
	}
	if len(p.Skills) > 0 {
		b.WriteString("\nSkills: " + strings.Join(p.Skills, ", "))
	}
	if p.Bio != "" {
		b.WriteString("\n" + p.Bio)
	}
	for _, e := range p.Experience {
		b.WriteString(fmt.Sprintf("\n%s %s",
			authorStyle.Render(e.Title+" @ "+e.Company),
			metaStyle.Render(span(e.From, e.To, e.Current))))
	}
	for _, ed := range p.Education {
		b.WriteString(fmt.Sprintf("\n%s %s",
			authorStyle.Render(ed.Degree+" in "+ed.FieldOfStudy+", "+ed.School),
			metaStyle.Render(span(ed.From, ed.To, ed.Current))))
	}
	return cardStyle.Render(b.String())
}

func span(from time.Time, to *time.Time, current bool) string {
	const layout = "2006-01"
	switch {
	case current:
		return from.Format(layout) + " – present"
	case to != nil:
		return from.Format(layout) + " – " + to.Format(layout)
	default:
		return from.Format(layout)
	}
}

// ProfileList renders the public directory of profiles.
func ProfileList(s state.ProfileSlice) string {
	if s.Err != "" {
		return ErrorBanner(s.Err)
	}
	if len(s.Profiles) == 0 {
		return metaStyle.Render("No profiles yet.")
	}

	cards := make([]string, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		cards = append(cards, ProfileCard(p))
	}
	return strings.Join(cards, "\n")
}

// Repos renders the GitHub repo list from the profile slice.
func Repos(s state.ProfileSlice) string {
	if s.Err != "" {
		return ErrorBanner(s.Err)
	}
	if len(s.Repos) == 0 {
		return metaStyle.Render("No repos.")
	}

	var b strings.Builder
	for i, r := range s.Repos {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s %s\n  %s",
			titleStyle.Render(r.Name),
			metaStyle.Render(fmt.Sprintf("★ %d · forks %d · %s", r.Stars, r.Forks, r.HTMLURL)),
			r.Description))
	}
	return b.String()
}
