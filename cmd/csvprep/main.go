// Command csvprep converts delimited text files into cleaned records ready
// for model training.
//
//	csvprep reviews.csv --output reviews.txt --remove-duplicates --validate
//
// Defaults come from CSVPREP_* environment variables (and a .env file in
// the working directory); flags override them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/csvprep/internal/core"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err for the user. Known errors get their message,
// code and action, with the technical error as details.
func reportError(w io.Writer, err error) {
	ue := core.NewUserError(err)
	slog.Debug("run failed", "error", err, "code", ue.User.Code)
	if !core.IsUserFacing(err) {
		fmt.Fprintln(w, "Error:", err)
		return
	}
	fmt.Fprintln(w, "Error:", ue.Format())
	fmt.Fprintln(w, "Details:", ue.Technical)
}
