package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"financeiro/internal/dto"
	"financeiro/internal/pagination"
	"financeiro/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	exportService      services.ExportServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	transactionService services.TransactionServicer,
	exportService services.ExportServicer,
	auditService services.AuditServicer,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		exportService:      exportService,
		auditService:       auditService,
	}
}

// FindAll returns a page of transactions
// @Summary     List transactions
// @Description Newest first by default. Sort by id, date, amount, description or transactionType.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int    false "Zero-based page number"
// @Param       size query int    false "Page size (max 100)"
// @Param       sort query string false "Sort property and direction, e.g. date,desc"
// @Success     200 {object} pagination.Page[dto.TransactionDTO] "Page of transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) FindAll(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.transactionService.FindAll(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// FindFuel returns a page of expenses that carry fuel data
// @Summary     List fuel transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int    false "Zero-based page number"
// @Param       size query int    false "Page size (max 100)"
// @Param       sort query string false "Sort property and direction"
// @Success     200 {object} pagination.Page[dto.TransactionDTO] "Page of fuel transactions"
// @Router      /transactions/fuel [get]
func (h *TransactionHandler) FindFuel(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.transactionService.FindFuel(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// FindByID returns a single transaction
// @Summary     Get transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} dto.TransactionDTO "Transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) FindByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// Insert records a transaction
// @Summary     Create a transaction
// @Description Create an income or expense. Fuel data is accepted on expenses only.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body dto.TransactionDTO true "Transaction details"
// @Success     201 {object} dto.TransactionDTO "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category or member not found"
// @Router      /transactions [post]
func (h *TransactionHandler) Insert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req dto.TransactionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	transaction, err := h.transactionService.Insert(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"amount": transaction.Amount.String(), "type": string(transaction.TransactionType)})

	c.Header("Location", fmt.Sprintf("/transactions/%d", transaction.ID))
	c.JSON(http.StatusCreated, transaction)
}

// Update overwrites a transaction
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Transaction ID"
// @Param       request body dto.TransactionDTO true "Transaction details"
// @Success     200 {object} dto.TransactionDTO "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req dto.TransactionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	transaction, err := h.transactionService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_TRANSACTION", "transaction", id, c.ClientIP(),
		map[string]interface{}{"amount": transaction.Amount.String(), "type": string(transaction.TransactionType)})

	c.JSON(http.StatusOK, transaction)
}

// Delete removes a transaction and its fuel data
// @Summary     Delete a transaction
// @Tags        transactions
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_TRANSACTION", "transaction", id, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// Export downloads transactions as a spreadsheet
// @Summary     Export transactions
// @Description Writes the matching transactions to an xlsx workbook, oldest first.
// @Tags        transactions
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       from     query string false "Start date (YYYY-MM-DD)"
// @Param       to       query string false "End date (YYYY-MM-DD)"
// @Param       memberId query int    false "Only this member's transactions"
// @Success     200 {file} file "Workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions/export [get]
func (h *TransactionHandler) Export(c *gin.Context) {
	var filter services.TransactionFilter
	var err error

	if filter.From, err = parseQueryDate(c, "from"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.To, err = parseQueryDate(c, "to"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.MemberID, err = parseQueryID(c, "memberId"); err != nil {
		respondWithError(c, err)
		return
	}

	content, err := h.exportService.Transactions(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}
