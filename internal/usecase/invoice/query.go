package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/fieldops/internal/config"
	"github.com/BruksfildServices01/fieldops/internal/documents"
	"github.com/BruksfildServices01/fieldops/internal/domain"
	invoicedomain "github.com/BruksfildServices01/fieldops/internal/domain/invoice"
	"github.com/BruksfildServices01/fieldops/internal/httperr"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

type GetInvoice struct {
	repo invoicedomain.Repository
}

func NewGetInvoice(repo invoicedomain.Repository) *GetInvoice {
	return &GetInvoice{repo: repo}
}

func (uc *GetInvoice) Execute(ctx context.Context, id uint) (*models.Invoice, error) {
	inv, err := uc.repo.GetInvoice(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return inv, err
}

// ------------------------------------------------------

type ListInvoicesInput struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *uint
}

type ListInvoicesResult struct {
	Invoices []models.Invoice
	Total    int64
	Page     int
	Limit    int
}

type ListInvoices struct {
	repo invoicedomain.Repository
}

func NewListInvoices(repo invoicedomain.Repository) *ListInvoices {
	return &ListInvoices{repo: repo}
}

func (uc *ListInvoices) Execute(ctx context.Context, in ListInvoicesInput) (*ListInvoicesResult, error) {
	page, limit := usecase.Page(in.Page, in.Limit)
	f := invoicedomain.ListFilter{Page: page, Limit: limit, CustomerID: in.CustomerID}

	if s := strings.TrimSpace(in.Status); s != "" {
		st, err := invoicedomain.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	out, total, err := uc.repo.ListInvoices(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListInvoicesResult{Invoices: out, Total: total, Page: page, Limit: limit}, nil
}

// ------------------------------------------------------

// RenderInvoicePDF loads an invoice with its joins and renders it.
type RenderInvoicePDF struct {
	repo invoicedomain.Repository
	biz  config.Business
}

func NewRenderInvoicePDF(repo invoicedomain.Repository, biz config.Business) *RenderInvoicePDF {
	return &RenderInvoicePDF{repo: repo, biz: biz}
}

func (uc *RenderInvoicePDF) Execute(ctx context.Context, id uint) (*models.Invoice, []byte, error) {
	inv, err := uc.repo.GetInvoice(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	pdf, err := documents.InvoicePDF(inv, uc.biz)
	if err != nil {
		return nil, nil, err
	}
	return inv, pdf, nil
}

// ------------------------------------------------------

// ExportInvoices renders every invoice issued in [from, to) as a spreadsheet.
type ExportInvoices struct {
	repo invoicedomain.Repository
}

func NewExportInvoices(repo invoicedomain.Repository) *ExportInvoices {
	return &ExportInvoices{repo: repo}
}

func (uc *ExportInvoices) Execute(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !to.After(from) {
		return nil, httperr.ErrBusinessMsg(httperr.CodeValidation, "to must be after from.")
	}
	invoices, err := uc.repo.ListInvoicesIssuedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return documents.InvoicesXLSX(invoices)
}
