package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
	solwatch "github.com/solpaylabs/solwatch/pkg"
	"github.com/tjstebbing/conductor"
)

// WebAPI implements conductor.Service
type WebAPI struct {
	api    solwatch.API
	config solwatch.Config
}

// interface guard ensures WebAPI implements conductor.Service
var _ conductor.Service = WebAPI{}

func NewWebAPI(config solwatch.Config, api solwatch.API) (WebAPI, error) {
	return WebAPI{api: api, config: config}, nil
}

func (t WebAPI) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		adminMux, pubMux := t.createRouters()

		// Start the admin server
		adminServer := &http.Server{Addr: t.config.WebAPI.AdminBind + ":" + t.config.WebAPI.AdminPort, Handler: adminMux}
		fmt.Printf("\nAdmin API listening on %s:%s", t.config.WebAPI.AdminBind, t.config.WebAPI.AdminPort)
		go func() {
			if err := adminServer.ListenAndServe(); err != http.ErrServerClosed {
				log.Fatalf("HTTP server admin ListenAndServe: %v", err)
			}
		}()

		// Start the public server
		pubServer := &http.Server{Addr: t.config.WebAPI.PubBind + ":" + t.config.WebAPI.PubPort, Handler: pubMux}
		fmt.Printf("\nPublic API listening on %s:%s", t.config.WebAPI.PubBind, t.config.WebAPI.PubPort)
		go func() {
			if err := pubServer.ListenAndServe(); err != http.ErrServerClosed {
				log.Fatalf("HTTP server public ListenAndServe: %v", err)
			}
		}()

		started <- true
		ctx := <-stop
		adminServer.Shutdown(ctx)
		pubServer.Shutdown(ctx)
		stopped <- true
	}()
	return nil
}

func (t WebAPI) createRouters() (adminMux *httprouter.Router, pubMux *httprouter.Router) {
	adminMux = httprouter.New() // Admin APIs
	pubMux = httprouter.New()   // Public APIs

	// Admin APIs

	// POST { link } /admin/link -> { link } create a new pay link and watch it
	adminMux.POST("/admin/link", t.createLink)

	// GET /admin/link/:id -> { link } full stored record
	adminMux.GET("/admin/link/:id", t.getLink)

	// External APIs

	// POST { id, reference, recipient, amount, network } /link -> 204 watch an existing link
	pubMux.POST("/link", t.watchLink)

	// GET /link/:id -> { link } get a pay link record
	pubMux.GET("/link/:id", t.getLink)

	// GET /link/:id/qr.png -> QR code for the link's solana: URL
	pubMux.GET("/link/:id/qr.png", t.getLinkQR)

	return
}

// watchLink accepts an existing payment link and adds it to the correct
// network's watch list. No persistence happens here.
func (t WebAPI) watchLink(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var req solwatch.IngestRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendBadRequest(w, "dados invalidos")
		return
	}
	err = t.api.Watch(req)
	if err != nil {
		sendError(w, "watchLink", err)
		return
	}
	sendNoContent(w)
}

// createLink persists a brand new pay link and watches it immediately.
func (t WebAPI) createLink(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var req solwatch.CreateLinkRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		sendBadRequest(w, "dados invalidos")
		return
	}
	link, err := t.api.CreateLink(req)
	if err != nil {
		sendError(w, "createLink", err)
		return
	}
	sendResponse(w, link)
}

func (t WebAPI) getLink(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	link, err := t.api.GetLink(p.ByName("id"))
	if err != nil {
		sendError(w, "getLink", err)
		return
	}
	sendResponse(w, link)
}

// getLinkQR renders the link's solana: URL as a QR code PNG.
func (t WebAPI) getLinkQR(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	link, err := t.api.GetLink(p.ByName("id"))
	if err != nil {
		sendError(w, "getLinkQR", err)
		return
	}
	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}
	png, err := qrcode.Encode(link.Link, qrcode.Medium, size)
	if err != nil {
		sendError(w, "getLinkQR", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}
