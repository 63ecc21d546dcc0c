package form

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jayakumar9/atlas-account-vault/internal/passgen"
)

// PromptFields collects the form fields interactively. Current values
// are shown as defaults and kept when the user enters nothing, which
// makes the same prompt serve both create and edit. Entering "gen" at
// the password prompt generates a strong password and echoes it back.
func PromptFields(in *bufio.Reader, out io.Writer, current Fields) (Fields, error) {
	f := current

	var err error
	if f.Website, err = promptLine(in, out, "Website", current.Website); err != nil {
		return f, err
	}
	if f.Name, err = promptLine(in, out, "Account name", current.Name); err != nil {
		return f, err
	}
	if f.Username, err = promptLine(in, out, "Username", current.Username); err != nil {
		return f, err
	}
	if f.Email, err = promptLine(in, out, "Email", current.Email); err != nil {
		return f, err
	}
	if f.Password, err = promptLine(in, out, "Password (\"gen\" to generate)", current.Password); err != nil {
		return f, err
	}
	if f.Password == "gen" {
		f.Password = passgen.Generate()
		fmt.Fprintf(out, "Generated password: %s\n", f.Password)
	}
	if f.Note, err = promptLine(in, out, "Note", current.Note); err != nil {
		return f, err
	}
	if f.FilePath, err = promptLine(in, out, "Attachment path (blank for none)", current.FilePath); err != nil {
		return f, err
	}
	return f, nil
}

func promptLine(in *bufio.Reader, out io.Writer, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}
