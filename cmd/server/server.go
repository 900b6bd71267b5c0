// Package server exposes the pipeline and session store over HTTP.
package server

import (
	"errors"
	"strings"

	"billbuddy/statements/cmd/root"
	"billbuddy/statements/internal/classify"
	"billbuddy/statements/internal/export"
	"billbuddy/statements/internal/ledger"
	"billbuddy/statements/internal/logging"
	"billbuddy/statements/internal/models"
	"billbuddy/statements/internal/parsererror"
	"billbuddy/statements/internal/pipeline"
	"billbuddy/statements/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

// Cmd is the server command.
var Cmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the parsing pipeline and session store over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		classifier := root.NewClassifier()
		pipe := pipeline.New(classifier, pipeline.Options{
			Currency: root.Cfg.Statement.Currency,
			Holder:   root.Cfg.Statement.Holder,
		}, root.Log)
		app := New(pipe, classifier, root.Log)
		root.Log.Info("Listening",
			logging.Field{Key: "addr", Value: root.Cfg.Server.Listen})
		return app.Listen(root.Cfg.Server.Listen)
	},
}

type api struct {
	pipe       *pipeline.Pipeline
	classifier *classify.Classifier
	session    *store.Session
	log        logging.Logger
}

// New builds the fiber application with all routes registered.
func New(pipe *pipeline.Pipeline, classifier *classify.Classifier, log logging.Logger) *fiber.App {
	if log == nil {
		log = logging.GetLogger()
	}
	if classifier == nil {
		classifier = classify.New(log)
	}
	a := &api{
		pipe:       pipe,
		classifier: classifier,
		session:    store.NewSession(log),
		log:        log,
	}

	app := fiber.New(fiber.Config{
		AppName:               "billbuddy",
		DisableStartupMessage: true,
	})

	app.Get("/health", a.health)
	app.Post("/parse", a.parse)
	app.Post("/import", a.importStatement)
	app.Post("/transactions", a.importTransactions)
	app.Get("/transactions", a.listTransactions)
	app.Get("/transactions/pending", a.listPending)
	app.Delete("/transactions/:id", a.deleteTransaction)
	app.Post("/transactions/:id/restore", a.restoreTransaction)
	app.Put("/transactions/:id/splits", a.setSplits)
	app.Put("/transactions/:id/category", a.setCategory)
	app.Put("/transactions/:id/reviewed", a.setReviewed)
	app.Put("/transactions/:id/group", a.assignGroup)
	app.Get("/groups", a.listGroups)
	app.Post("/groups/suggest", a.suggestGroups)
	app.Get("/balances", a.balances)

	return app
}

func (a *api) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type parseRequest struct {
	Text string `json:"text"`
}

// parse runs the pipeline without touching the session.
func (a *api) parse(c *fiber.Ctx) error {
	req, err := parseBody(c)
	if err != nil {
		return err
	}
	return c.JSON(a.pipe.Process(req.Text))
}

// importStatement runs the pipeline and appends the result to the session.
func (a *api) importStatement(c *fiber.Ctx) error {
	req, err := parseBody(c)
	if err != nil {
		return err
	}
	result := a.pipe.Process(req.Text)
	a.session.AddTransactions(result.Transactions)
	return c.JSON(result)
}

func parseBody(c *fiber.Ctx) (parseRequest, error) {
	var req parseRequest
	if strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&req); err != nil {
			return req, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
	} else {
		// Plain text bodies are accepted as-is.
		req.Text = string(c.Body())
	}
	if strings.TrimSpace(req.Text) == "" {
		return req, fiber.NewError(fiber.StatusBadRequest, "empty statement text")
	}
	return req, nil
}

// importTransactions appends already-structured transactions, the shape
// written by the export package. Records arriving without a category get
// one from the rule table.
func (a *api) importTransactions(c *fiber.Ctx) error {
	txs, err := export.DecodeTransactions(c.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	a.session.AddTransactions(txs)
	a.session.EnsureCategories(a.classifier)
	return c.JSON(fiber.Map{"imported": len(txs)})
}

func (a *api) listTransactions(c *fiber.Ctx) error {
	if c.QueryBool("deleted") {
		return c.JSON(a.session.All())
	}
	return c.JSON(a.session.Active())
}

func (a *api) listPending(c *fiber.Ctx) error {
	return c.JSON(a.session.Pending())
}

func (a *api) deleteTransaction(c *fiber.Ctx) error {
	return a.respond(c, a.session.Delete(c.Params("id")))
}

func (a *api) restoreTransaction(c *fiber.Ctx) error {
	return a.respond(c, a.session.Restore(c.Params("id")))
}

type splitsRequest struct {
	PaidBy string             `json:"paidBy"`
	Splits []models.SplitPart `json:"splits"`
}

func (a *api) setSplits(c *fiber.Ctx) error {
	var req splitsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid splits body")
	}
	return a.respond(c, a.session.SetSplits(c.Params("id"), req.PaidBy, req.Splits))
}

func (a *api) setCategory(c *fiber.Ctx) error {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil || req.Category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category body")
	}
	return a.respond(c, a.session.SetCategory(c.Params("id"), req.Category))
}

func (a *api) setReviewed(c *fiber.Ctx) error {
	var req struct {
		Reviewed bool `json:"reviewed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid reviewed body")
	}
	return a.respond(c, a.session.SetReviewed(c.Params("id"), req.Reviewed))
}

func (a *api) assignGroup(c *fiber.Ctx) error {
	var req struct {
		GroupID string `json:"groupId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid group body")
	}
	return a.respond(c, a.session.AssignGroup(c.Params("id"), req.GroupID))
}

func (a *api) listGroups(c *fiber.Ctx) error {
	return c.JSON(a.session.Groups())
}

func (a *api) suggestGroups(c *fiber.Ctx) error {
	return c.JSON(a.session.SuggestGroups())
}

func (a *api) balances(c *fiber.Ctx) error {
	bal := a.session.Balances()
	out := fiber.Map{}
	for _, name := range bal.People() {
		out[name] = bal[name].StringFixed(2)
	}
	resp := fiber.Map{"balances": out}
	if c.QueryBool("settle") {
		settlements := bal.Settle()
		if settlements == nil {
			settlements = []ledger.Settlement{}
		}
		resp["settlements"] = settlements
	}
	return c.JSON(resp)
}

// respond maps store errors onto HTTP statuses.
func (a *api) respond(c *fiber.Ctx, err error) error {
	if err == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	var notFound *parsererror.NotFoundError
	if errors.As(err, &notFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	var invalid *parsererror.ValidationError
	if errors.As(err, &invalid) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	a.log.WithError(err).Error("Request failed")
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
