package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/radutopala/seqmatch/internal/temperature"
)

const (
	Banner        = "Fahrenheit to Celsius converter"
	Prompt        = "Fahrenheit value:"
	NotANumberMsg = "You didn't enter a number. Please enter a number."
)

// LineReader reads one line of input after showing a prompt.
// *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// StreamReader is a LineReader for non-interactive input such as pipes.
// Lines may be of any length.
type StreamReader struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewStreamReader reads lines from in and writes prompts to out.
func NewStreamReader(in io.Reader, out io.Writer) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Prompt writes prompt and returns the next line without its terminator.
// A final line without a newline is returned as is; io.EOF follows it.
func (r *StreamReader) Prompt(prompt string) (string, error) {
	if _, err := io.WriteString(r.out, prompt); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := r.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Run drives the Fahrenheit to Celsius loop until an empty line, end of
// input, or an aborted prompt. Lines that are not numbers are reported to out
// and the user is asked again. Any other read failure is returned.
func Run(ctx context.Context, in LineReader, out io.Writer) error {
	fmt.Fprintf(out, "%s\n\n", Banner)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := in.Prompt(Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(out)
				return nil
			}
			return fmt.Errorf("failed to read line: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}

		fahrenheit, err := parseFahrenheit(line)
		if err != nil {
			fmt.Fprintf(out, "%s\n\n", NotANumberMsg)
			continue
		}

		celsius := temperature.FahrenheitToCelsius(fahrenheit)
		fmt.Fprintf(out, "F: %s, C: %s\n",
			temperature.FormatDegrees(fahrenheit), temperature.FormatDegrees(celsius))
	}
}

// parseFahrenheit accepts decimal notation only; ParseFloat alone would also
// take hexadecimal floats such as 0x1p4.
func parseFahrenheit(s string) (float64, error) {
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, fmt.Errorf("not a decimal number: %q", s)
	}
	return strconv.ParseFloat(s, 64)
}
