package db_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stroymarket/db"
	"stroymarket/db/migrations"
)

// These tests run against a real database and are skipped unless
// POSTGRES_CONN is set.

func testStorage(t *testing.T) *db.Storage {
	t.Helper()
	dsn := os.Getenv("POSTGRES_CONN")
	if dsn == "" {
		t.Skip("POSTGRES_CONN is not set")
	}
	conn, err := db.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(conn.DB))
	store := db.NewStorage(conn)
	t.Cleanup(func() { store.Close() })
	return store
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func createTestUser(t *testing.T, store *db.Storage, prefix string) *db.User {
	t.Helper()
	name := uniq(prefix)
	u, err := store.CreateUser(context.Background(), &db.User{
		Username: name,
		Email:    name + "@example.com",
		Password: "hash",
		FullName: "Test " + prefix,
		UserType: "individual",
	})
	require.NoError(t, err)
	return u
}

func TestCreateThenGetUser(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	created := createTestUser(t, store, "roundtrip")
	got, err := store.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, created, got)

	missing, err := store.GetUser(ctx, -1)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateTenderStatusOnly(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "tender_owner")

	created, err := store.CreateTender(ctx, &db.Tender{
		UserID:              owner.ID,
		Title:               "Построить дом",
		Description:         "Каркасный дом 120 м2",
		Category:            "construction",
		Budget:              2500000,
		Images:              db.StringList{"https://example.com/plan.png"},
		RequiredProfessions: db.StringList{"плотник", "электрик"},
	})
	require.NoError(t, err)
	require.Equal(t, db.TenderStatusOpen, created.Status)

	time.Sleep(10 * time.Millisecond)
	status := "closed"
	updated, err := store.UpdateTender(ctx, created.ID, &db.TenderPatch{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, updated)

	require.Equal(t, "closed", updated.Status)
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	require.Equal(t, created.Title, updated.Title)
	require.Equal(t, created.Budget, updated.Budget)
	require.Equal(t, created.Images, updated.Images)
	require.Equal(t, created.RequiredProfessions, updated.RequiredProfessions)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)

	absent, err := store.UpdateTender(ctx, -1, &db.TenderPatch{Status: &status})
	require.NoError(t, err)
	require.Nil(t, absent)
}

func TestTenderFiltering(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "tender_filter")

	marker := uniq("дом")
	_, err := store.CreateTender(ctx, &db.Tender{
		UserID: owner.ID, Title: "Построить " + marker, Category: "construction",
		RequiredProfessions: db.StringList{"электрик"},
	})
	require.NoError(t, err)
	_, err = store.CreateTender(ctx, &db.Tender{
		UserID: owner.ID, Title: "Ремонт квартиры", Description: marker,
		Category: "renovation", RequiredProfessions: db.StringList{"электрика"},
	})
	require.NoError(t, err)

	// Exact category match, scoped to this test's owner.
	cat := "construction"
	tenders, err := store.GetTenders(ctx, &db.TenderFilters{UserID: &owner.ID, Category: &cat})
	require.NoError(t, err)
	require.Len(t, tenders, 1)
	require.Equal(t, "construction", tenders[0].Category)

	// Search term matches title OR description.
	tenders, err = store.GetTenders(ctx, &db.TenderFilters{UserID: &owner.ID, SearchTerm: &marker})
	require.NoError(t, err)
	require.Len(t, tenders, 2)

	// Exact element matching does not hit "электрика" when asked for "электрик".
	prof := "электрик"
	tenders, err = store.GetTenders(ctx, &db.TenderFilters{UserID: &owner.ID, RequiredProfession: &prof})
	require.NoError(t, err)
	require.Len(t, tenders, 1)
	require.Equal(t, "construction", tenders[0].Category)

	// The push-down substring path is approximate and hits both.
	tenders, err = store.GetTenders(ctx, &db.TenderFilters{UserID: &owner.ID, Profession: &prof})
	require.NoError(t, err)
	require.Len(t, tenders, 2)
}

func TestAcceptTenderBid(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "accept_owner")
	bidder := createTestUser(t, store, "accept_bidder")

	tender, err := store.CreateTender(ctx, &db.Tender{
		UserID: owner.ID, Title: "Фундамент", Category: "construction",
	})
	require.NoError(t, err)

	bid, err := store.CreateTenderBid(ctx, &db.TenderBid{
		TenderID: tender.ID, BidderID: bidder.ID, Amount: 100000, Description: "За месяц",
	})
	require.NoError(t, err)
	require.False(t, bid.IsAccepted)

	accepted, err := store.AcceptTenderBid(ctx, bid.ID)
	require.NoError(t, err)
	require.NotNil(t, accepted)
	require.True(t, accepted.IsAccepted)

	after, err := store.GetTender(ctx, tender.ID)
	require.NoError(t, err)
	require.Equal(t, db.TenderStatusInProgress, after.Status)

	// Re-accepting is idempotent on the flag and re-applies the status.
	again, err := store.AcceptTenderBid(ctx, bid.ID)
	require.NoError(t, err)
	require.True(t, again.IsAccepted)

	missing, err := store.AcceptTenderBid(ctx, -1)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateUserRating(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	recipient := createTestUser(t, store, "rating_recipient")
	author := createTestUser(t, store, "rating_author")

	// No reviews: returns 0 and leaves the row untouched.
	rating, err := store.UpdateUserRating(ctx, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, 0, rating)
	unchanged, err := store.GetUser(ctx, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, recipient.UpdatedAt, unchanged.UpdatedAt)

	for _, r := range []int{5, 4, 3} {
		_, err = store.CreateReview(ctx, &db.Review{
			AuthorID: author.ID, RecipientID: recipient.ID, Rating: r, Comment: "ok",
		})
		require.NoError(t, err)
	}

	rating, err = store.UpdateUserRating(ctx, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, 4, rating)

	updated, err := store.GetUser(ctx, recipient.ID)
	require.NoError(t, err)
	require.Equal(t, 4, updated.Rating)
}

func TestDeliveryOptionSoftDelete(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	option, err := store.CreateDeliveryOption(ctx, &db.DeliveryOption{
		Name: uniq("Доставка"), Price: 300, EstimatedDays: 2,
	})
	require.NoError(t, err)
	require.True(t, option.IsActive)

	ok, err := store.DeleteDeliveryOption(ctx, option.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Gone from the active listing, still resolvable by id.
	active, err := store.GetDeliveryOptions(ctx)
	require.NoError(t, err)
	for _, o := range active {
		require.NotEqual(t, option.ID, o.ID)
	}
	byID, err := store.GetDeliveryOption(ctx, option.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.False(t, byID.IsActive)
}

func TestDeliveryOrderTransitions(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store, "order_user")

	option, err := store.CreateDeliveryOption(ctx, &db.DeliveryOption{
		Name: uniq("Курьер"), Price: 500, EstimatedDays: 1,
	})
	require.NoError(t, err)

	order, err := store.CreateDeliveryOrder(ctx, &db.DeliveryOrder{
		UserID: user.ID, OptionID: option.ID, Address: "Москва, Тверская 1",
	})
	require.NoError(t, err)
	require.Equal(t, "pending", order.Status)

	time.Sleep(10 * time.Millisecond)
	shipped, err := store.UpdateDeliveryOrderStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	require.Equal(t, "shipped", shipped.Status)
	require.True(t, shipped.UpdatedAt.After(order.UpdatedAt))

	tracked, err := store.UpdateDeliveryOrderTracking(ctx, order.ID, "TRACK-123")
	require.NoError(t, err)
	require.Equal(t, "TRACK-123", tracked.TrackingCode)
	require.Equal(t, "shipped", tracked.Status)
}

func TestDesignProjectAppends(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store, "design_user")

	project, err := store.CreateDesignProject(ctx, &db.DesignProject{
		UserID: user.ID, Title: "Интерьер квартиры",
		ProjectFiles: db.StringList{"https://example.com/brief.pdf"},
	})
	require.NoError(t, err)
	require.Equal(t, "new", project.Status)
	require.Equal(t, db.StringList{}, project.VisualizationURLs)

	withViz, err := store.AddProjectVisualization(ctx, project.ID, "https://example.com/v1.png")
	require.NoError(t, err)
	require.Equal(t, db.StringList{"https://example.com/v1.png"}, withViz.VisualizationURLs)
	require.Equal(t, project.ProjectFiles, withViz.ProjectFiles)

	withFile, err := store.AddProjectFile(ctx, project.ID, "https://example.com/plan.dwg")
	require.NoError(t, err)
	require.Equal(t, db.StringList{"https://example.com/brief.pdf", "https://example.com/plan.dwg"},
		withFile.ProjectFiles)
	require.Equal(t, withViz.VisualizationURLs, withFile.VisualizationURLs)
}

func TestMessagesConversation(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	alice := createTestUser(t, store, "msg_alice")
	bob := createTestUser(t, store, "msg_bob")

	first, err := store.CreateMessage(ctx, &db.Message{
		SenderID: alice.ID, ReceiverID: bob.ID, Content: "Здравствуйте",
	})
	require.NoError(t, err)
	require.False(t, first.IsRead)

	_, err = store.CreateMessage(ctx, &db.Message{
		SenderID: bob.ID, ReceiverID: alice.ID, Content: "Добрый день",
	})
	require.NoError(t, err)

	conversation, err := store.GetConversation(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	require.Equal(t, "Здравствуйте", conversation[0].Content)

	ok, err := store.MarkMessageRead(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	read, err := store.GetMessage(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, read.IsRead)
}

func TestEstimateDeleteCascades(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store, "estimate_user")

	estimate, err := store.CreateEstimate(ctx, &db.Estimate{
		UserID: user.ID, Title: "Смета на отделку", Total: 150000,
	})
	require.NoError(t, err)

	item, err := store.CreateEstimateItem(ctx, &db.EstimateItem{
		EstimateID: estimate.ID, Name: "Штукатурка", Unit: "м2",
		Quantity: 80, UnitPrice: 600, Amount: 48000,
	})
	require.NoError(t, err)

	ok, err := store.DeleteEstimate(ctx, estimate.ID)
	require.NoError(t, err)
	require.True(t, ok)

	goneItem, err := store.GetEstimateItem(ctx, item.ID)
	require.NoError(t, err)
	require.Nil(t, goneItem)
}

func TestBankGuaranteeLifecycle(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	customer := createTestUser(t, store, "bg_customer")
	contractor := createTestUser(t, store, "bg_contractor")

	guarantee, err := store.CreateBankGuarantee(ctx, &db.BankGuaranteeInput{
		CustomerID:   customer.ID,
		ContractorID: contractor.ID,
		Amount:       500000,
		Description:  "Гарантия исполнения контракта",
		Terms:        "Стандартные условия",
		StartDate:    "2025-01-01",
		EndDate:      "2025-12-31",
	})
	require.NoError(t, err)
	require.Equal(t, db.GuaranteeStatusPending, guarantee.Status)
	require.Equal(t, 2025, guarantee.StartDate.Year())

	_, err = store.CreateBankGuarantee(ctx, &db.BankGuaranteeInput{
		CustomerID: customer.ID, ContractorID: contractor.ID,
		StartDate: "bad date", EndDate: "2025-12-31",
	})
	require.Error(t, err)

	both, err := store.GetUserBankGuarantees(ctx, contractor.ID)
	require.NoError(t, err)
	require.Len(t, both, 1)

	active, err := store.UpdateBankGuaranteeStatus(ctx, guarantee.ID, "active")
	require.NoError(t, err)
	require.Equal(t, "active", active.Status)
}

func TestCreateCrewStartsUnverified(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "crew_owner")

	crew, err := store.CreateCrew(ctx, &db.Crew{
		UserID:         owner.ID,
		Name:           uniq("Бригада"),
		Specialization: "кровля",
		IsVerified:     true,
		IsAvailable:    true,
	})
	require.NoError(t, err)
	require.False(t, crew.IsVerified)
	require.True(t, crew.IsAvailable)

	verified, err := store.UpdateCrew(ctx, crew.ID, &db.CrewPatch{IsVerified: boolPtr(true)})
	require.NoError(t, err)
	require.True(t, verified.IsVerified)
}

func boolPtr(b bool) *bool { return &b }

func TestIncrementViews(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()
	user := createTestUser(t, store, "views_user")

	listing, err := store.CreateListing(ctx, &db.MarketplaceListing{
		UserID: user.ID, Title: "Цемент М500", Category: "materials",
		ListingType: "sale", Price: 450,
	})
	require.NoError(t, err)
	require.Equal(t, 0, listing.ViewsCount)

	require.NoError(t, store.IncrementListingViews(ctx, listing.ID))
	require.NoError(t, store.IncrementListingViews(ctx, listing.ID))

	viewed, err := store.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	require.Equal(t, 2, viewed.ViewsCount)
}
