package main

import (
	"bytes"
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
)

type fakeApp struct {
	ran, previewed bool
}

func (f *fakeApp) Run(context.Context) string {
	f.ran = true
	return "Email enviado com sucesso!"
}

func (f *fakeApp) Preview(context.Context) string {
	f.previewed = true
	return "Bom dia!\n"
}

func TestRunPrintsDeliveryStatus(t *testing.T) {
	app := &fakeApp{}
	var out bytes.Buffer

	run(context.Background(), app, false, &out, zaptest.NewLogger(t))

	if !app.ran || app.previewed {
		t.Fatalf("expected Run only, got ran=%v previewed=%v", app.ran, app.previewed)
	}
	if out.String() != "Email enviado com sucesso!\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunDryRunPrintsBody(t *testing.T) {
	app := &fakeApp{}
	var out bytes.Buffer

	run(context.Background(), app, true, &out, zaptest.NewLogger(t))

	if app.ran || !app.previewed {
		t.Fatalf("expected Preview only, got ran=%v previewed=%v", app.ran, app.previewed)
	}
	if out.String() != "Bom dia!\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
