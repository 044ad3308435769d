package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/etnz/tally"
	"github.com/etnz/tally/date"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// text is a field typed by a user: a JSON string or number, kept as text and
// coerced by the book.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("want a string or a number, got %s", b)
	}
	*t = text(n)
	return nil
}

func (t *text) ptr() *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

type orderRequest struct {
	Date *date.Date `json:"date"`
}

type buyRequest struct {
	Ticker   *text `json:"ticker"`
	Quantity *text `json:"quantity"`
	Price    *text `json:"price"`
}

// fail aborts the request with a JSON error, not found errors give 404.
func fail(c *gin.Context, status int, err error) {
	if errors.Is(err, tally.ErrOrderNotFound) || errors.Is(err, tally.ErrBuyNotFound) {
		status = http.StatusNotFound
	}
	c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// id reads a numeric path parameter.
func id(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid %s id %q", name, c.Param(name)))
		return 0, false
	}
	return v, true
}

// bindOptional decodes the JSON body into v, an empty body leaves v untouched.
func bindOptional(c *gin.Context, v any) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return false
	}
	return true
}

// view encodes what f returns under the session read lock. The response is
// written after the lock is released, a slow client never holds the book.
func (s *Server) view(c *gin.Context, status int, f func(*tally.Book) (any, error)) {
	var body []byte
	err := s.session.View(func(b *tally.Book) error {
		v, err := f(b)
		if err != nil {
			return err
		}
		body, err = json.Marshal(v)
		return err
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(status, jsonContentType, body)
}

// edit is view for changes: f runs under the session write lock.
func (s *Server) edit(c *gin.Context, status int, f func(*tally.Book) (any, error)) {
	var body []byte
	err := s.session.Update(func(b *tally.Book) error {
		v, err := f(b)
		if err != nil {
			return err
		}
		body, err = json.Marshal(v)
		return err
	})
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.Data(status, jsonContentType, body)
}

const jsonContentType = "application/json; charset=utf-8"

func (s *Server) handleOrders(c *gin.Context) {
	s.view(c, http.StatusOK, func(b *tally.Book) (any, error) { return b, nil })
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req orderRequest
	if !bindOptional(c, &req) {
		return
	}
	on := s.today()
	if req.Date != nil {
		on = *req.Date
	}
	s.edit(c, http.StatusCreated, func(b *tally.Book) (any, error) {
		o := b.CreateOrder(on)
		s.logger.Debug("order created", zap.Int("order", o.ID()), zap.Stringer("date", o.Date()))
		return o, nil
	})
}

func (s *Server) handleChangeOrder(c *gin.Context) {
	orderID, ok := id(c, "order")
	if !ok {
		return
	}
	var req orderRequest
	if !bindOptional(c, &req) {
		return
	}
	s.edit(c, http.StatusOK, func(b *tally.Book) (any, error) {
		if err := b.ChangeOrder(orderID, tally.OrderUpdate{Date: req.Date}); err != nil {
			return nil, err
		}
		return b.Order(orderID)
	})
}

func (s *Server) handleDeleteOrder(c *gin.Context) {
	orderID, ok := id(c, "order")
	if !ok {
		return
	}
	err := s.session.Update(func(b *tally.Book) error { return b.DeleteOrder(orderID) })
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateBuy(c *gin.Context) {
	orderID, ok := id(c, "order")
	if !ok {
		return
	}
	s.edit(c, http.StatusCreated, func(b *tally.Book) (any, error) {
		return b.CreateBuy(orderID)
	})
}

func (s *Server) handleChangeBuy(c *gin.Context) {
	orderID, ok := id(c, "order")
	if !ok {
		return
	}
	buyID, ok := id(c, "buy")
	if !ok {
		return
	}
	var req buyRequest
	if !bindOptional(c, &req) {
		return
	}
	update := tally.BuyUpdate{Ticker: req.Ticker.ptr(), Quantity: req.Quantity.ptr(), Price: req.Price.ptr()}
	s.edit(c, http.StatusOK, func(b *tally.Book) (any, error) {
		return b.ChangeBuy(orderID, buyID, update)
	})
}

func (s *Server) handleDeleteBuy(c *gin.Context) {
	orderID, ok := id(c, "order")
	if !ok {
		return
	}
	buyID, ok := id(c, "buy")
	if !ok {
		return
	}
	err := s.session.Update(func(b *tally.Book) error { return b.DeleteBuy(orderID, buyID) })
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePositions(c *gin.Context) {
	s.view(c, http.StatusOK, func(b *tally.Book) (any, error) {
		positions, err := tally.Positions(c.Request.Context(), b, s.session.prices)
		if err != nil {
			return nil, err
		}
		if positions == nil {
			positions = []tally.Position{}
		}
		return gin.H{"positions": positions}, nil
	})
}

func (s *Server) handleExport(c *gin.Context) {
	var buf bytes.Buffer
	err := s.session.View(func(b *tally.Book) error { return tally.ExportCSV(&buf, b) })
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="portfolio.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// handleImport replaces the book with the CSV sent as the request body or as
// the "file" field of a multipart form. Bodies over s.maxImport bytes are
// rejected with 413.
func (s *Server) handleImport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxImport)
	var r io.Reader = c.Request.Body
	if c.ContentType() == "multipart/form-data" {
		header, err := c.FormFile("file")
		if err != nil {
			failImport(c, fmt.Errorf("missing file: %w", err))
			return
		}
		f, err := header.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
		defer f.Close()
		r = f
	}

	book, err := tally.ImportCSV(r, s.session.Currency())
	if err != nil {
		failImport(c, err)
		return
	}
	body, err := json.Marshal(book)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.session.Replace(book)
	s.logger.Info("book imported", zap.Int("orders", book.Len()))
	c.Data(http.StatusOK, jsonContentType, body)
}

// failImport is fail for a rejected import, an oversized body gives 413.
func failImport(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		fail(c, http.StatusRequestEntityTooLarge, fmt.Errorf("import larger than %d bytes", tooLarge.Limit))
		return
	}
	fail(c, http.StatusBadRequest, err)
}
