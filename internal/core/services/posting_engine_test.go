package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/commercio/posting_engine/internal/apperrors"
	"github.com/commercio/posting_engine/internal/core/domain"
	portsrepo "github.com/commercio/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/commercio/posting_engine/internal/core/ports/services"
	"github.com/commercio/posting_engine/internal/core/services"
	"github.com/commercio/posting_engine/internal/dto"
)

type PostingEngineTestSuite struct {
	suite.Suite
	accountRepo *MockAccountRepository
	productRepo *MockProductRepository
	docRepo     *MockDocumentRepository
	paymentRepo *MockPaymentRepository
	notifier    *MockNotificationsGateway
	service     portssvc.PostingSvcFacade

	now      time.Time
	actorID  string
	customer domain.Account
	supplier domain.Account
	widget   domain.Product
	gadget   domain.Product
}

func (suite *PostingEngineTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.productRepo = new(MockProductRepository)
	suite.docRepo = new(MockDocumentRepository)
	suite.paymentRepo = new(MockPaymentRepository)
	suite.notifier = new(MockNotificationsGateway)

	suite.now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	repos := portsrepo.RepositoryProvider{
		AccountRepo:  suite.accountRepo,
		ProductRepo:  suite.productRepo,
		DocumentRepo: suite.docRepo,
		PaymentRepo:  suite.paymentRepo,
	}
	suite.service = services.NewPostingEngine(repos, suite.notifier, fixedClock{t: suite.now}, 5*time.Second, true)

	suite.actorID = uuid.NewString()
	suite.customer = domain.Account{
		AccountID: uuid.NewString(),
		Role:      domain.RoleCustomer,
		Name:      "North Retail",
		Balance:   decimal.Zero,
		IsActive:  true,
		Version:   1,
	}
	suite.supplier = domain.Account{
		AccountID: uuid.NewString(),
		Role:      domain.RoleSupplier,
		Name:      "Acme Wholesale",
		Balance:   decimal.Zero,
		IsActive:  true,
		Version:   1,
	}
	suite.widget = domain.Product{
		ProductID:        uuid.NewString(),
		Name:             "Widget",
		OnHand:           decimal.NewFromInt(10),
		UnitCost:         decimal.NewFromInt(30),
		UnitSellingPrice: decimal.NewFromInt(50),
		IsActive:         true,
		Version:          1,
	}
	suite.gadget = domain.Product{
		ProductID:        uuid.NewString(),
		Name:             "Gadget",
		OnHand:           decimal.NewFromInt(5),
		UnitCost:         decimal.NewFromInt(20),
		UnitSellingPrice: decimal.NewFromInt(30),
		IsActive:         true,
		Version:          1,
	}
}

func (suite *PostingEngineTestSuite) beginTx() {
	suite.docRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.docRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
}

func (suite *PostingEngineTestSuite) expectCommit() {
	suite.docRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.notifier.On("Notify", mock.Anything, mock.AnythingOfType("domain.PostingEvent")).Return(nil).Once()
}

func (suite *PostingEngineTestSuite) assertAll() {
	suite.accountRepo.AssertExpectations(suite.T())
	suite.productRepo.AssertExpectations(suite.T())
	suite.docRepo.AssertExpectations(suite.T())
	suite.paymentRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

// --- CreateDocument ---

func (suite *PostingEngineTestSuite) TestCreateDocument_DraftSalesOrder_DefaultsUnitPrice() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind:      domain.SalesOrder,
		AccountID: suite.customer.AccountID,
		Lines: []dto.CreateLineRequest{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2)},
		},
		ActorID: suite.actorID,
	}

	suite.beginTx()
	suite.accountRepo.On("FindAccountByIDForUpdate", mock.Anything, mock.Anything, suite.customer.AccountID).
		Return(&suite.customer, nil).Once()
	suite.productRepo.On("FindProductsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.widget.ProductID}).
		Return(map[string]domain.Product{suite.widget.ProductID: suite.widget}, nil).Once()
	suite.docRepo.On("SaveDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	doc, err := suite.service.CreateDocument(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal(domain.Draft, doc.State)
	suite.True(doc.TotalAmount.Equal(decimal.NewFromInt(100)), "unit price should fall back to the selling price")
	suite.True(doc.OutstandingAmount.Equal(decimal.NewFromInt(100)))
	suite.Require().Len(doc.Lines, 1)
	suite.True(doc.Lines[0].UnitPrice.Equal(decimal.NewFromInt(50)))
	suite.True(doc.Lines[0].UnitCost.Equal(suite.widget.UnitCost), "unit cost should be captured from the product")
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestCreateDocument_AcceptedSalesOrder_PostsLedgers() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind:      domain.SalesOrder,
		AccountID: suite.customer.AccountID,
		Lines: []dto.CreateLineRequest{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
		Accepted: true,
		ActorID:  suite.actorID,
	}

	suite.beginTx()
	suite.accountRepo.On("FindAccountByIDForUpdate", mock.Anything, mock.Anything, suite.customer.AccountID).
		Return(&suite.customer, nil).Once()
	suite.productRepo.On("FindProductsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.widget.ProductID}).
		Return(map[string]domain.Product{suite.widget.ProductID: suite.widget}, nil).Once()
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.widget.ProductID, decEq(decimal.NewFromInt(-2)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(100)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("SaveDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	doc, err := suite.service.CreateDocument(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.Accepted, doc.State)
	suite.True(doc.OutstandingAmount.Equal(decimal.NewFromInt(100)))
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestCreateDocument_RoleMismatch_Conflict() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind:      domain.SalesOrder,
		AccountID: suite.supplier.AccountID,
		Lines: []dto.CreateLineRequest{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1)},
		},
		ActorID: suite.actorID,
	}

	suite.beginTx()
	suite.accountRepo.On("FindAccountByIDForUpdate", mock.Anything, mock.Anything, suite.supplier.AccountID).
		Return(&suite.supplier, nil).Once()

	doc, err := suite.service.CreateDocument(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(doc)
	suite.docRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestCreateDocument_UnknownProduct_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()
	req := dto.CreateDocumentRequest{
		Kind:      domain.SalesOrder,
		AccountID: suite.customer.AccountID,
		Lines: []dto.CreateLineRequest{
			{ProductID: missingID, Quantity: decimal.NewFromInt(1)},
		},
		ActorID: suite.actorID,
	}

	suite.beginTx()
	suite.accountRepo.On("FindAccountByIDForUpdate", mock.Anything, mock.Anything, suite.customer.AccountID).
		Return(&suite.customer, nil).Once()
	suite.productRepo.On("FindProductsByIDsForUpdate", mock.Anything, mock.Anything, []string{missingID}).
		Return(nil, apperrors.NewNotFoundError("product not found: "+missingID)).Once()

	doc, err := suite.service.CreateDocument(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(doc)
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestCreateDocument_ZeroQuantity_InvalidAmount() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind:      domain.SalesOrder,
		AccountID: suite.customer.AccountID,
		Lines: []dto.CreateLineRequest{
			{ProductID: suite.widget.ProductID, Quantity: decimal.Zero},
		},
		ActorID: suite.actorID,
	}

	suite.beginTx()
	suite.accountRepo.On("FindAccountByIDForUpdate", mock.Anything, mock.Anything, suite.customer.AccountID).
		Return(&suite.customer, nil).Once()
	suite.productRepo.On("FindProductsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.widget.ProductID}).
		Return(map[string]domain.Product{suite.widget.ProductID: suite.widget}, nil).Once()

	_, err := suite.service.CreateDocument(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestCreateDocument_MissingAccountID_ValidationError() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind: domain.SalesOrder,
		Lines: []dto.CreateLineRequest{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(1)},
		},
		ActorID: suite.actorID,
	}

	_, err := suite.service.CreateDocument(ctx, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.docRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *PostingEngineTestSuite) TestCreateDocument_AcceptedWithPartialInitialPayment() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind:      domain.SalesOrder,
		AccountID: suite.customer.AccountID,
		Lines: []dto.CreateLineRequest{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
		InitialPayment: &dto.ChannelAmountsRequest{Cash: decimal.NewFromInt(40)},
		Accepted:       true,
		ActorID:        suite.actorID,
	}

	suite.beginTx()
	suite.accountRepo.On("FindAccountByIDForUpdate", mock.Anything, mock.Anything, suite.customer.AccountID).
		Return(&suite.customer, nil).Once()
	suite.productRepo.On("FindProductsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.widget.ProductID}).
		Return(map[string]domain.Product{suite.widget.ProductID: suite.widget}, nil).Once()
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.widget.ProductID, decEq(decimal.NewFromInt(-2)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(100)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("SaveDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(-40)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.AppliedAmount.Equal(decimal.NewFromInt(40)) && p.TotalAmount.Equal(decimal.NewFromInt(40))
	})).Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	doc, err := suite.service.CreateDocument(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.Accepted, doc.State)
	suite.True(doc.OutstandingAmount.Equal(decimal.NewFromInt(60)))
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestCreateDocument_PurchaseFullyPaid_AutoAccepts() {
	ctx := context.Background()
	req := dto.CreateDocumentRequest{
		Kind:      domain.PurchaseOrder,
		AccountID: suite.supplier.AccountID,
		Lines: []dto.CreateLineRequest{
			{ProductID: suite.widget.ProductID, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
		},
		InitialPayment: &dto.ChannelAmountsRequest{Transfer: decimal.NewFromInt(100)},
		ActorID:        suite.actorID,
	}

	suite.beginTx()
	suite.accountRepo.On("FindAccountByIDForUpdate", mock.Anything, mock.Anything, suite.supplier.AccountID).
		Return(&suite.supplier, nil).Once()
	suite.productRepo.On("FindProductsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.widget.ProductID}).
		Return(map[string]domain.Product{suite.widget.ProductID: suite.widget}, nil).Once()
	suite.docRepo.On("SaveDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.supplier.AccountID, decEq(decimal.NewFromInt(-100)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.AppliedAmount.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()
	// full settlement of a draft purchase order triggers acceptance
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.widget.ProductID, decEq(decimal.NewFromInt(2)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.supplier.AccountID, decEq(decimal.NewFromInt(100)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	doc, err := suite.service.CreateDocument(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.Accepted, doc.State)
	suite.True(doc.OutstandingAmount.IsZero())
	suite.assertAll()
}

// --- AcceptDocument ---

func (suite *PostingEngineTestSuite) draftSalesDocument() *domain.Document {
	return &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.SalesOrder,
		AccountID:  suite.customer.AccountID,
		Lines: []domain.LineItem{
			{
				LineID:    uuid.NewString(),
				ProductID: suite.widget.ProductID,
				Quantity:  decimal.NewFromInt(3),
				UnitPrice: decimal.NewFromInt(10),
				UnitCost:  suite.widget.UnitCost,
			},
		},
		TotalAmount:       decimal.NewFromInt(30),
		OutstandingAmount: decimal.NewFromInt(30),
		State:             domain.Draft,
		Version:           1,
	}
}

func (suite *PostingEngineTestSuite) TestAcceptDocument_Success() {
	ctx := context.Background()
	doc := suite.draftSalesDocument()

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.widget.ProductID, decEq(decimal.NewFromInt(-3)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(30)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	accepted, err := suite.service.AcceptDocument(ctx, doc.DocumentID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Accepted, accepted.State)
	suite.Equal(int64(2), accepted.Version)
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestAcceptDocument_AlreadyAccepted_Conflict() {
	ctx := context.Background()
	doc := suite.draftSalesDocument()
	doc.State = domain.Accepted

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()

	_, err := suite.service.AcceptDocument(ctx, doc.DocumentID, suite.actorID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.docRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.assertAll()
}

// --- AmendDocument ---

func (suite *PostingEngineTestSuite) TestAmendDocument_SwapLines_AppliesDeltas() {
	ctx := context.Background()
	doc := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.SalesOrder,
		AccountID:  suite.customer.AccountID,
		Lines: []domain.LineItem{
			{
				LineID:    uuid.NewString(),
				ProductID: suite.widget.ProductID,
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(50),
			},
		},
		TotalAmount:       decimal.NewFromInt(100),
		OutstandingAmount: decimal.NewFromInt(100),
		State:             domain.Accepted,
		Version:           2,
	}
	removedLineID := doc.Lines[0].LineID
	req := dto.AmendDocumentRequest{
		AddLines: []dto.CreateLineRequest{
			{ProductID: suite.gadget.ProductID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(30)},
		},
		RemoveLineIDs: []string{removedLineID},
		ActorID:       suite.actorID,
	}

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()
	suite.docRepo.On("VoidLinesInTx", mock.Anything, mock.Anything, doc.DocumentID, []string{removedLineID}, suite.actorID, suite.now).
		Return(nil).Once()
	suite.productRepo.On("FindProductsByIDsForUpdate", mock.Anything, mock.Anything, []string{suite.gadget.ProductID}).
		Return(map[string]domain.Product{suite.gadget.ProductID: suite.gadget}, nil).Once()
	suite.docRepo.On("InsertLinesInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(lines []domain.LineItem) bool {
		return len(lines) == 1 && lines[0].ProductID == suite.gadget.ProductID
	})).Return(nil).Once()
	// removal reverses the widget shipment, the addition ships one gadget
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.widget.ProductID, decEq(decimal.NewFromInt(2)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.gadget.ProductID, decEq(decimal.NewFromInt(-1)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(-70)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	amended, err := suite.service.AmendDocument(ctx, doc.DocumentID, req)

	suite.Require().NoError(err)
	suite.True(amended.TotalAmount.Equal(decimal.NewFromInt(30)))
	suite.True(amended.OutstandingAmount.Equal(decimal.NewFromInt(30)))
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestAmendDocument_OutstandingNeverNegative() {
	ctx := context.Background()
	doc := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.SalesOrder,
		AccountID:  suite.customer.AccountID,
		Lines: []domain.LineItem{
			{
				LineID:    uuid.NewString(),
				ProductID: suite.widget.ProductID,
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(50),
			},
		},
		TotalAmount:       decimal.NewFromInt(100),
		OutstandingAmount: decimal.NewFromInt(20), // mostly paid already
		State:             domain.Accepted,
		Version:           3,
	}
	removedLineID := doc.Lines[0].LineID
	req := dto.AmendDocumentRequest{
		RemoveLineIDs: []string{removedLineID},
		ActorID:       suite.actorID,
	}

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()
	suite.docRepo.On("VoidLinesInTx", mock.Anything, mock.Anything, doc.DocumentID, []string{removedLineID}, suite.actorID, suite.now).
		Return(nil).Once()
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.widget.ProductID, decEq(decimal.NewFromInt(2)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(-100)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	amended, err := suite.service.AmendDocument(ctx, doc.DocumentID, req)

	suite.Require().NoError(err)
	suite.True(amended.TotalAmount.IsZero())
	suite.True(amended.OutstandingAmount.IsZero())
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestAmendDocument_RecordsPayment() {
	ctx := context.Background()
	doc := suite.draftSalesDocument()
	req := dto.AmendDocumentRequest{
		Payment: &dto.AmendPaymentRequest{
			Channels: dto.ChannelAmountsRequest{Cash: decimal.NewFromInt(30)},
		},
		ActorID: suite.actorID,
	}

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(-30)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.paymentRepo.On("SavePaymentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.DocumentID != nil && *p.DocumentID == doc.DocumentID && p.AppliedAmount.Equal(decimal.NewFromInt(30))
	})).Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	amended, err := suite.service.AmendDocument(ctx, doc.DocumentID, req)

	suite.Require().NoError(err)
	suite.True(amended.OutstandingAmount.IsZero())
	suite.Equal(domain.Draft, amended.State, "full payment accepts purchase orders only")
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestAmendDocument_Voided_NotFound() {
	ctx := context.Background()
	doc := suite.draftSalesDocument()
	doc.State = domain.Voided
	req := dto.AmendDocumentRequest{
		RemoveLineIDs: []string{doc.Lines[0].LineID},
		ActorID:       suite.actorID,
	}

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()

	_, err := suite.service.AmendDocument(ctx, doc.DocumentID, req)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.assertAll()
}

// --- VoidDocument ---

func (suite *PostingEngineTestSuite) TestVoidDocument_AcceptedWithPayment_ReversesEverything() {
	ctx := context.Background()
	doc := &domain.Document{
		DocumentID: uuid.NewString(),
		Kind:       domain.SalesOrder,
		AccountID:  suite.customer.AccountID,
		Lines: []domain.LineItem{
			{
				LineID:    uuid.NewString(),
				ProductID: suite.widget.ProductID,
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(50),
			},
		},
		TotalAmount:       decimal.NewFromInt(100),
		OutstandingAmount: decimal.NewFromInt(60),
		State:             domain.Accepted,
		Version:           3,
	}
	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		DocumentID:    &doc.DocumentID,
		AccountID:     suite.customer.AccountID,
		Channels:      domain.PaymentChannels{Cash: decimal.NewFromInt(40)},
		TotalAmount:   decimal.NewFromInt(40),
		AppliedAmount: decimal.NewFromInt(40),
	}

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()
	suite.productRepo.On("AdjustOnHandInTx", mock.Anything, mock.Anything, suite.widget.ProductID, decEq(decimal.NewFromInt(2)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(-100)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.paymentRepo.On("FindPaymentsByDocumentIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return([]domain.Payment{payment}, nil).Once()
	suite.accountRepo.On("AdjustBalanceInTx", mock.Anything, mock.Anything, suite.customer.AccountID, decEq(decimal.NewFromInt(40)), suite.actorID, suite.now).
		Return(nil).Once()
	suite.paymentRepo.On("VoidPaymentsByDocumentIDInTx", mock.Anything, mock.Anything, doc.DocumentID, suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("VoidAllLinesInTx", mock.Anything, mock.Anything, doc.DocumentID, suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	voided, err := suite.service.VoidDocument(ctx, doc.DocumentID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Voided, voided.State)
	suite.True(voided.OutstandingAmount.IsZero())
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestVoidDocument_DraftWithoutPayments_SkipsLedgers() {
	ctx := context.Background()
	doc := suite.draftSalesDocument()

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()
	suite.paymentRepo.On("FindPaymentsByDocumentIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return([]domain.Payment{}, nil).Once()
	suite.docRepo.On("VoidAllLinesInTx", mock.Anything, mock.Anything, doc.DocumentID, suite.actorID, suite.now).
		Return(nil).Once()
	suite.docRepo.On("UpdateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.Document")).
		Return(nil).Once()
	suite.expectCommit()

	voided, err := suite.service.VoidDocument(ctx, doc.DocumentID, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Voided, voided.State)
	suite.productRepo.AssertNotCalled(suite.T(), "AdjustOnHandInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.accountRepo.AssertNotCalled(suite.T(), "AdjustBalanceInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestVoidDocument_AlreadyVoided_Conflict() {
	ctx := context.Background()
	doc := suite.draftSalesDocument()
	doc.State = domain.Voided

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, doc.DocumentID).
		Return(doc, nil).Once()

	_, err := suite.service.VoidDocument(ctx, doc.DocumentID, suite.actorID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.docRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.assertAll()
}

func (suite *PostingEngineTestSuite) TestVoidDocument_Missing_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.beginTx()
	suite.docRepo.On("FindDocumentByIDForUpdate", mock.Anything, mock.Anything, missingID).
		Return(nil, apperrors.NewNotFoundError("document not found: "+missingID)).Once()

	_, err := suite.service.VoidDocument(ctx, missingID, suite.actorID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.assertAll()
}

func TestPostingEngineTestSuite(t *testing.T) {
	suite.Run(t, new(PostingEngineTestSuite))
}
