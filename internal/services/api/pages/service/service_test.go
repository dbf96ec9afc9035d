package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/judell/word-replacer/internal/core/wordmap"
	"github.com/judell/word-replacer/internal/driver"
	perr "github.com/judell/word-replacer/internal/platform/errors"
	"github.com/judell/word-replacer/internal/platform/testkit"
	"github.com/judell/word-replacer/internal/services/api/pages/domain"
)

func setup(t *testing.T, max int) (*Svc, *driver.Driver) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	drv := driver.New(driver.Options{})
	cfg, err := wordmap.Parse([]byte(`{"wordMappings":{"musk":"someone"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	drv.Replace(cfg)
	done := make(chan struct{})
	go func() {
		_ = drv.Run(ctx)
		close(done)
	}()
	s := New(drv, Options{MaxPages: max})
	t.Cleanup(func() {
		s.Close()
		cancel()
		<-done
	})
	return s, drv
}

func TestCreateAppendDelete(t *testing.T) {
	s, drv := setup(t, 0)
	ctx := context.Background()

	p, err := s.Create(ctx, domain.CreateInput{HTML: `<div id="a"><p>Musk</p></div>`})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Report.Trigger != driver.TriggerAttach || p.Report.Changed != 1 {
		t.Fatalf("attach report = %+v", p.Report)
	}
	if drv.Attached() != 1 || s.Count() != 1 {
		t.Fatalf("attached = %d count = %d", drv.Attached(), s.Count())
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil || !strings.Contains(got.HTML, "<p>someone</p>") {
		t.Fatalf("get = %+v %v", got, err)
	}

	res, err := s.Append(ctx, p.ID, domain.FragmentInput{Selector: "#a", HTML: "<span>MUSK</span>"})
	if err != nil || res.Matched != 1 {
		t.Fatalf("append = %+v %v", res, err)
	}
	testkit.Eventually(t, time.Second, func() bool {
		got, _ := s.Get(ctx, p.ID)
		return strings.Contains(got.HTML, "<span>someone</span>")
	}, "appended text rewritten")

	res, err = s.Remove(ctx, p.ID, "span")
	if err != nil || res.Matched != 1 {
		t.Fatalf("remove = %+v %v", res, err)
	}
	if _, err := s.Remove(ctx, p.ID, "span"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("remove again: %v", err)
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if drv.Attached() != 0 {
		t.Fatalf("delete did not detach")
	}
	if err := s.Delete(ctx, p.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("delete again: %v", err)
	}
	if _, err := s.Get(ctx, p.ID); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}

func TestListOrderAndLimit(t *testing.T) {
	s, _ := setup(t, 2)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time { tick++; return base.Add(time.Duration(-tick) * time.Minute) }

	a, _ := s.Create(ctx, domain.CreateInput{HTML: "<p>a</p>"})
	b, _ := s.Create(ctx, domain.CreateInput{HTML: "<p>b</p>"})
	if _, err := s.Create(ctx, domain.CreateInput{HTML: "<p>c</p>"}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("over limit: %v", err)
	}

	list := s.List(ctx)
	if len(list) != 2 || list[0].ID != b.ID || list[1].ID != a.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestAppend_BadSelector(t *testing.T) {
	s, _ := setup(t, 0)
	ctx := context.Background()
	p, _ := s.Create(ctx, domain.CreateInput{HTML: "<p>x</p>"})

	_, err := s.Append(ctx, p.ID, domain.FragmentInput{Selector: "p[", HTML: "<b>y</b>"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("bad selector: %v", err)
	}
	if e, _ := perr.As(err); e.Field() != "selector" {
		t.Fatalf("field = %q", e.Field())
	}
	if _, err := s.Append(ctx, "missing", domain.FragmentInput{Selector: "p", HTML: "x"}); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing page: %v", err)
	}
}
