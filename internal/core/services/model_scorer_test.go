package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/SscSPs/categorization_engine/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ModelScorerTestSuite struct {
	suite.Suite
	mockModel      *MockGenerativeModel
	mockCategories *MockCategoryDirectory
	scorer         portssvc.ModelScorerSvc
	org            domain.OrgContext
	txn            domain.NormalizedTransaction
}

func (suite *ModelScorerTestSuite) SetupTest() {
	suite.mockModel = new(MockGenerativeModel)
	suite.mockCategories = new(MockCategoryDirectory)
	suite.scorer = services.NewModelScorerService(suite.mockModel, suite.mockCategories, services.ModelScorerConfig{
		MaxTokens:    256,
		Temperature:  0.2,
		Timeout:      50 * time.Millisecond,
		RetryBackoff: time.Millisecond,
	})
	suite.org = domain.OrgContext{OrgID: "org-1", UserID: "user-1"}
	suite.txn = domain.NormalizedTransaction{
		TransactionID: "txn-1",
		OrgID:         "org-1",
		Date:          time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:   "STARBUCKS #1234",
		AmountMinor:   -450,
		CurrencyCode:  "USD",
		MCC:           strPtr("5814"),
	}
	suite.mockCategories.On("ListCategories", mock.Anything, "org-1").Return([]domain.Category{
		{CategoryID: "cat_food_beverage", Name: "Food & Beverage"},
		{CategoryID: "cat_meals", Name: "Meals"},
	}, nil).Maybe()
}

func (suite *ModelScorerTestSuite) TestScoreSuccessAndPromptContents() {
	var captured string
	suite.mockModel.On("Generate", mock.Anything, mock.AnythingOfType("string"), int32(256), float32(0.2)).
		Run(func(args mock.Arguments) { captured = args.String(1) }).
		Return(`{"category_id":"cat_food_beverage","confidence":0.9,"rationale":["coffee"]}`, nil).Once()

	result, err := suite.scorer.Score(context.Background(), suite.org, suite.txn, []string{"no rule matched vendor \"STARBUCKS\""})

	suite.Require().NoError(err)
	suite.Require().NotNil(result.CategoryID)
	suite.Equal("cat_food_beverage", *result.CategoryID)
	suite.Equal(0.9, result.Confidence)
	suite.Contains(captured, "-4.50 USD")
	suite.Contains(captured, "cat_meals: Meals")
	suite.Contains(captured, "no rule matched vendor")
	suite.mockModel.AssertExpectations(suite.T())
}

func (suite *ModelScorerTestSuite) TestPromptIsBounded() {
	hints := make([]string, 10)
	for i := range hints {
		hints[i] = "hint-" + string(rune('a'+i))
	}
	long := suite.txn
	long.Description = strings.Repeat("é", 1000)

	prompt := services.BuildCategorizationPrompt(long, hints, nil)

	suite.Contains(prompt, "hint-e")
	suite.NotContains(prompt, "hint-f")
	suite.Contains(prompt, strings.Repeat("é", 256))
	suite.NotContains(prompt, strings.Repeat("é", 257))
}

func (suite *ModelScorerTestSuite) TestUnparseableResponseFailsClosed() {
	suite.mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("I believe this is coffee.", nil).Once()

	result, err := suite.scorer.Score(context.Background(), suite.org, suite.txn, nil)

	suite.Require().NoError(err)
	suite.Nil(result.CategoryID)
	suite.Equal(0.0, result.Confidence)
	suite.Require().Len(result.Rationale, 1)
	suite.Contains(result.Rationale[0], "model response could not be parsed")
}

func (suite *ModelScorerTestSuite) TestUnknownCategoryFailsClosed() {
	suite.mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"category_id":"cat_other_org","confidence":0.99}`, nil).Once()

	result, err := suite.scorer.Score(context.Background(), suite.org, suite.txn, nil)

	suite.Require().NoError(err)
	suite.Nil(result.CategoryID)
	suite.Equal(0.0, result.Confidence)
	suite.Contains(result.Rationale[0], "cat_other_org")
}

func (suite *ModelScorerTestSuite) TestRetriesOnceThenSucceeds() {
	suite.mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("503 unavailable")).Once()
	suite.mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"category_id":"cat_meals","confidence":0.6}`, nil).Once()

	result, err := suite.scorer.Score(context.Background(), suite.org, suite.txn, nil)

	suite.Require().NoError(err)
	suite.Equal("cat_meals", *result.CategoryID)
	suite.mockModel.AssertNumberOfCalls(suite.T(), "Generate", 2)
}

func (suite *ModelScorerTestSuite) TestBothAttemptsFail() {
	suite.mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("503 unavailable")).Twice()

	_, err := suite.scorer.Score(context.Background(), suite.org, suite.txn, nil)

	suite.ErrorIs(err, apperrors.ErrExternalService)
	suite.mockModel.AssertNumberOfCalls(suite.T(), "Generate", 2)
}

func (suite *ModelScorerTestSuite) TestTimeoutPerAttempt() {
	suite.mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return("", context.DeadlineExceeded).Twice()

	start := time.Now()
	_, err := suite.scorer.Score(context.Background(), suite.org, suite.txn, nil)

	suite.ErrorIs(err, apperrors.ErrExternalService)
	suite.Less(time.Since(start), 2*time.Second)
	suite.mockModel.AssertNumberOfCalls(suite.T(), "Generate", 2)
}

func (suite *ModelScorerTestSuite) TestNotConfiguredIsNotRetried() {
	suite.mockModel.On("Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", portssvc.ErrModelNotConfigured).Once()

	_, err := suite.scorer.Score(context.Background(), suite.org, suite.txn, nil)

	suite.ErrorIs(err, apperrors.ErrExternalService)
	suite.mockModel.AssertNumberOfCalls(suite.T(), "Generate", 1)
}

func (suite *ModelScorerTestSuite) TestRejectsForeignTransaction() {
	foreign := suite.txn
	foreign.OrgID = "org-2"

	_, err := suite.scorer.Score(context.Background(), suite.org, foreign, nil)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockModel.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestModelScorerTestSuite(t *testing.T) {
	suite.Run(t, new(ModelScorerTestSuite))
}
