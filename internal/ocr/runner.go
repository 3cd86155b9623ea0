package ocr

import (
	"bytes"
	"context"
	"log"
	"os/exec"
)

// Runner abstracts external binary execution so tests can stub tesseract.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var out, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	if err != nil {
		log.Printf("ocr: exec %s failed: %v", name, err)
	}
	return out.Bytes(), errb.Bytes(), err
}
