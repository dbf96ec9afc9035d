package driver

import (
	"context"

	"github.com/judell/word-replacer/internal/core/wordmap"
	perr "github.com/judell/word-replacer/internal/platform/errors"
)

// Updates returns the send side of the update channel
func (d *Driver) Updates() chan<- Update { return d.updates }

// Publish queues cfg for the event loop, blocking until there is room or ctx ends
func (d *Driver) Publish(ctx context.Context, cfg *wordmap.Configuration) error {
	select {
	case d.updates <- Update{Config: cfg}:
		return nil
	case <-ctx.Done():
		return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "publish configuration")
	}
}

// Commit persists cfg and then publishes it. When the save fails the
// Configuration in effect is left as it was and the error is ConfigSave
func (d *Driver) Commit(ctx context.Context, store ConfigStore, cfg *wordmap.Configuration) error {
	if err := store.Save(ctx, cfg); err != nil {
		return perr.Wrap(err, perr.ErrorCodeConfigSave, "save configuration")
	}
	return d.Publish(ctx, cfg)
}

// Attach registers scope, scans it once and, when scope is a ChangeNotifier,
// rescans it from the event loop whenever it signals a change.
// Attaching the same scope twice is a no-op apart from the scan
func (d *Driver) Attach(ctx context.Context, scope DocumentScope) Report {
	d.mu.Lock()
	if _, ok := d.attached[scope]; !ok {
		a := &attachment{scope: scope, stop: make(chan struct{})}
		d.attached[scope] = a
		if n, ok := scope.(ChangeNotifier); ok {
			go d.forward(a, n.Changes())
		}
	}
	d.mu.Unlock()
	return d.scan(ctx, scope, TriggerAttach)
}

// Detach stops watching scope. It reports whether scope was attached
func (d *Driver) Detach(scope DocumentScope) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.attached[scope]
	if !ok {
		return false
	}
	close(a.stop)
	delete(d.attached, scope)
	return true
}

// Attached reports the number of attached scopes
func (d *Driver) Attached() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.attached)
}

func (d *Driver) forward(a *attachment, ch <-chan struct{}) {
	for {
		select {
		case <-a.stop:
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			select {
			case d.changes <- a:
			case <-a.stop:
				return
			}
		}
	}
}

func (d *Driver) snapshotScopes() []DocumentScope {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DocumentScope, 0, len(d.attached))
	for s := range d.attached {
		out = append(out, s)
	}
	return out
}

func (d *Driver) isAttached(a *attachment) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached[a.scope] == a
}

// Run is the event loop. Updates swap the Configuration and rescan every
// attached scope; change notifications rescan the scope that changed.
// Run returns when ctx is done
func (d *Driver) Run(ctx context.Context) error {
	d.log.Info().Msg("driver loop started")
	defer d.log.Info().Msg("driver loop stopped")
	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-d.updates:
			d.Replace(u.Config)
			cfg := d.Config()
			d.log.Info().
				Int("targets", cfg.Table.Len()).
				Int("exceptions", cfg.Exceptions.Len()).
				Msg("configuration replaced")
			for _, s := range d.snapshotScopes() {
				d.scan(ctx, s, TriggerUpdate)
			}
		case a := <-d.changes:
			if d.isAttached(a) {
				d.scan(ctx, a.scope, TriggerChange)
			}
		}
	}
}
