package web

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// nopCloser lets the qrcode writer close the response without closing anything.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

func (h *handler) ClubQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	club, ok := h.resolveClub(w, r)
	if !ok {
		return
	}

	qr, err := qrcode.New(h.Cfg.Server.PublicURL + "/clubs/" + club.BookmarkKey())
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create qrcode", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "Failed to create qrcode")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	qrW := standard.NewWithWriter(nopCloser{w},
		standard.WithBgTransparent(),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err = qr.Save(qrW); err != nil {
		slog.ErrorContext(ctx, "Failed to write qrcode", slog.Any("err", err))
	}
}
