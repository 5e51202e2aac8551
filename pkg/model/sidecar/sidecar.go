// Package sidecar serves the original pickled artifacts through a Python
// child process and implements model.Predictor over its local HTTP API.
package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"text/template"
	"time"

	"github.com/xh3b4sd/tracer"

	"fert/pkg/model"
)

var ErrNotReady = errors.New("sidecar: not ready")

type Sidecar struct {
	Add string
	Cli *http.Client
	Cmd *exec.Cmd
	Fil *os.File
	// Pat is the required directory holding scaler.pkl, label_encoder.pkl,
	// fertilizer_recommendation_model.pkl and optionally feature_encoders.pkl.
	Pat string
	// Por is the required free port the Python server listens on.
	Por int
	// Py is the interpreter, python3 by default.
	Py string
	// Tem is the Python script template, DefaultTemplate when empty.
	Tem string
	// Wai bounds how long Restore waits for the child to answer.
	Wai time.Duration
	Url string

	labels []string
}

// Restore renders the script, starts the child process and blocks until it
// answers or ctx/Wai expires.
func (s *Sidecar) Restore(ctx context.Context) error {
	var err error

	if s.Pat == "" {
		panic("Sidecar.Pat must not be empty")
	}
	if s.Por == 0 {
		panic("Sidecar.Por must not be empty")
	}
	s.defaults()

	{
		s.Fil, err = os.CreateTemp("", "fert-sidecar-*.py")
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var buf bytes.Buffer
	{
		err = s.render(&buf)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		_, err = s.Fil.Write(buf.Bytes())
		if err != nil {
			return tracer.Mask(err)
		}
		err = s.Fil.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		s.Cmd = exec.Command(s.Py, s.Fil.Name())
		s.Cmd.Stdout = os.Stdout
		s.Cmd.Stderr = os.Stderr
		err = s.Cmd.Start()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	go func() {
		if err := s.Cmd.Wait(); err != nil {
			log.Printf("[model] sidecar %s exited: %v", s.Fil.Name(), err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.Wai)
	defer cancel()
	for !s.checker(ctx) {
		select {
		case <-ctx.Done():
			return tracer.Mask(fmt.Errorf("%w: %v", ErrNotReady, ctx.Err()))
		case <-time.After(250 * time.Millisecond):
		}
	}

	{
		err = s.fetchLabels(ctx)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	log.Printf("[model] sidecar ready on %s with %d labels", s.Url, len(s.labels))
	return nil
}

func (s *Sidecar) defaults() {
	if s.Add == "" {
		s.Add = "127.0.0.1"
	}
	if s.Cli == nil {
		s.Cli = &http.Client{Timeout: 10 * time.Second}
	}
	if s.Py == "" {
		s.Py = "python3"
	}
	if s.Tem == "" {
		s.Tem = DefaultTemplate
	}
	if s.Wai == 0 {
		s.Wai = 30 * time.Second
	}
	if s.Url == "" {
		s.Url = fmt.Sprintf("http://%s:%d", s.Add, s.Por)
	}
}

func (s *Sidecar) render(w io.Writer) error {
	t, err := template.New("sidecar").Parse(s.Tem)
	if err != nil {
		return tracer.Mask(err)
	}
	return t.Execute(w, map[string]interface{}{
		"Add": s.Add,
		"Pat": strings.TrimSuffix(s.Pat, "/"),
		"Por": s.Por,
	})
}

func (s *Sidecar) Encode(ctx context.Context, soil, crop string) (int, int, error) {
	var res struct {
		Soil int `json:"soil"`
		Crop int `json:"crop"`
	}
	err := s.post(ctx, "/encode", map[string]string{"soil": soil, "crop": crop}, &res)
	if err != nil {
		return 0, 0, tracer.Mask(err)
	}
	return res.Soil, res.Crop, nil
}

func (s *Sidecar) Predict(ctx context.Context, features []float64) (string, error) {
	if len(features) != model.FeatureCount {
		return "", fmt.Errorf("%w: got %d", model.ErrFeatureCount, len(features))
	}
	var res struct {
		Label string `json:"label"`
	}
	err := s.post(ctx, "/predict", map[string][]float64{"features": features}, &res)
	if err != nil {
		return "", tracer.Mask(err)
	}
	return res.Label, nil
}

func (s *Sidecar) Labels() []string { return append([]string(nil), s.labels...) }

// Ready reports whether the child answers its health route.
func (s *Sidecar) Ready(ctx context.Context) bool { return s.checker(ctx) }

func (s *Sidecar) Sigkill() error {
	if s.Cmd == nil || s.Cmd.Process == nil {
		return nil
	}

	{
		err := s.Cmd.Process.Kill()
		if err != nil && !errors.Is(err, os.ErrProcessDone) {
			return tracer.Mask(err)
		}
	}

	if s.Fil != nil {
		os.Remove(s.Fil.Name())
	}

	return nil
}

func (s *Sidecar) post(ctx context.Context, path string, in, out any) error {
	var err error

	var byt []byte
	{
		byt, err = json.Marshal(in)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, s.Url+path, bytes.NewReader(byt))
		if err != nil {
			return tracer.Mask(err)
		}
		req.Header.Set("Content-Type", "application/json")
	}

	var res *http.Response
	{
		res, err = s.Cli.Do(req)
		if err != nil {
			return tracer.Mask(err)
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(io.LimitReader(res.Body, 1<<20))
		if err != nil {
			return tracer.Mask(err)
		}
	}

	if res.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(bod, &e)
		return tracer.Mask(fmt.Errorf("sidecar %s: status %d: %s", path, res.StatusCode, e.Error))
	}

	err = json.Unmarshal(bod, out)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func (s *Sidecar) fetchLabels(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Url+"/labels", nil)
	if err != nil {
		return tracer.Mask(err)
	}
	res, err := s.Cli.Do(req)
	if err != nil {
		return tracer.Mask(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return tracer.Mask(fmt.Errorf("sidecar /labels: status %d", res.StatusCode))
	}
	err = json.NewDecoder(res.Body).Decode(&s.labels)
	if err != nil {
		return tracer.Mask(err)
	}
	return nil
}

func (s *Sidecar) checker(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Url, nil)
	if err != nil {
		return false
	}
	res, err := s.Cli.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	bod, err := io.ReadAll(res.Body)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(bod)) == "OK"
}
