package report

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// localePrinter returns a message.Printer tagged with the process's
// environment locale (LC_ALL, then LANG, falling back to English), used
// only for the stdout report's thousands-separated numeric formatting.
// Unlike C's setlocale, Go carries no mutable process-wide locale state to
// restore on exit: each report call builds its own Printer, so there is
// nothing for other goroutines to observe mid-report and nothing left over
// once WriteText returns.
func localePrinter() *message.Printer {
	tag := detectLocale()
	return message.NewPrinter(tag)
}

func detectLocale() language.Tag {
	for _, env := range []string{"LC_ALL", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		// Strip encoding suffixes such as "en_US.UTF-8".
		v = strings.SplitN(v, ".", 2)[0]
		v = strings.ReplaceAll(v, "_", "-")
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	return language.English
}
