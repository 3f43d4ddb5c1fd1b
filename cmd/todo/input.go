package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

// lineInput reads shell lines. Output goes through Writer so that alarm
// messages printed while a prompt is showing do not garble it.
type lineInput interface {
	ReadLine(prompt string) (string, error)
	Writer() io.Writer
	Close() error
}

type basicLineInput struct {
	reader *bufio.Reader
	out    *lockedWriter
}

func newBasicLineInput(in io.Reader, out io.Writer) *basicLineInput {
	return &basicLineInput{
		reader: bufio.NewReader(in),
		out:    &lockedWriter{w: out},
	}
}

func (b *basicLineInput) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineInput) Writer() io.Writer { return b.out }

func (b *basicLineInput) Close() error { return nil }

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type readlineInput struct {
	instance *readline.Instance
}

func newReadlineInput(historyPath string) (*readlineInput, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            "todo> ",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
		AutoComplete:      shellCompleter(),
	})
	if err != nil {
		return nil, err
	}
	return &readlineInput{instance: instance}, nil
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) Writer() io.Writer { return r.instance.Stdout() }

func (r *readlineInput) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

// newLineInput uses readline on a terminal and plain buffered reads
// otherwise, which is what scripts and pipes need.
func newLineInput(in io.Reader, out io.Writer, historyPath string) (lineInput, error) {
	if f, ok := in.(*os.File); ok && isTerminal(f) && isTerminal(out) {
		readlineReader, err := newReadlineInput(historyPath)
		if err == nil {
			return readlineReader, nil
		}
		return newBasicLineInput(in, out), err
	}
	return newBasicLineInput(in, out), nil
}

func shellCompleter() readline.AutoCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(shellCommands))
	for _, name := range shellCommands {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}
