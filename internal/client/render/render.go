// Package render draws the account list as terminal cards. Icon
// resolution happens up front, so a card never changes after it is
// written; re-rendering always emits the complete current list.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jayakumar9/atlas-account-vault/internal/favicon"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// Renderer writes account cards to a terminal.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes every record as a card. The output is a pure function
// of accounts: calling Render again with the same list reproduces the
// same text, so a reload fully replaces rather than appends.
func (r *Renderer) Render(accounts []models.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(r.out, "No accounts stored yet. Use 'add' to create one.")
		return
	}
	for i := range accounts {
		r.renderCard(&accounts[i])
	}
}

func (r *Renderer) renderCard(acc *models.Account) {
	icon := favicon.Resolve(acc.Name, acc.Website)

	fmt.Fprintf(r.out, "#%d - %s\n", acc.SerialNumber, acc.Name)
	if icon.Monogram {
		fmt.Fprintf(r.out, "  Icon:       %s (%s)\n", favicon.Initials(acc.Name), favicon.Color(acc.Name))
	} else {
		fmt.Fprintf(r.out, "  Icon:       %s\n", icon.URL)
	}
	fmt.Fprintf(r.out, "  Website:    %s\n", orNA(acc.Website))
	fmt.Fprintf(r.out, "  Username:   %s\n", orNA(acc.Username))
	fmt.Fprintf(r.out, "  Email:      %s\n", orNA(acc.Email))
	fmt.Fprintf(r.out, "  Password:   %s\n", strings.Repeat("*", 8))
	if acc.Note != "" {
		fmt.Fprintf(r.out, "  Note:       %s\n", acc.Note)
	}
	if acc.AttachedFile != nil {
		fmt.Fprintf(r.out, "  Attachment: %s (view %d | download %d)\n",
			acc.AttachedFile.Filename, acc.SerialNumber, acc.SerialNumber)
	}
	fmt.Fprintf(r.out, "  [edit %d] [delete %d]\n\n", acc.SerialNumber, acc.SerialNumber)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
