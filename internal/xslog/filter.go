package xslog

import (
	"context"
	"log/slog"
	"slices"
)

const ComponentKey = "component"

var _ slog.Handler = (*FilterHandler)(nil)

type FilterFunc func(ctx context.Context, record slog.Record) bool

// MuteComponents drops every record carrying a component attribute listed in names.
func MuteComponents(names ...string) FilterFunc {
	return func(_ context.Context, record slog.Record) bool {
		keep := true
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == ComponentKey && slices.Contains(names, attr.Value.String()) {
				keep = false
				return false
			}
			return true
		})
		return keep
	}
}

// Component returns the attribute MuteComponents matches on.
func Component(name string) slog.Attr {
	return slog.String(ComponentKey, name)
}

func NewFilterHandler(handler slog.Handler, filter FilterFunc) *FilterHandler {
	return &FilterHandler{handler: handler, filter: filter}
}

type FilterHandler struct {
	handler slog.Handler
	filter  FilterFunc
	attrs   []slog.Attr
}

func (f *FilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.handler.Enabled(ctx, level)
}

func (f *FilterHandler) Handle(ctx context.Context, record slog.Record) error {
	if f.filter != nil {
		r := record.Clone()
		r.AddAttrs(f.attrs...)
		if !f.filter(ctx, r) {
			return nil
		}
	}
	return f.handler.Handle(ctx, record)
}

// WithAttrs keeps a copy of the attributes so loggers created with
// logger.With(Component(...)) are still matched by the filter.
func (f *FilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &FilterHandler{
		handler: f.handler.WithAttrs(attrs),
		filter:  f.filter,
		attrs:   append(slices.Clone(f.attrs), attrs...),
	}
}

func (f *FilterHandler) WithGroup(name string) slog.Handler {
	return &FilterHandler{
		handler: f.handler.WithGroup(name),
		filter:  f.filter,
		attrs:   f.attrs,
	}
}
