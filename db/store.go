package db

import "context"

// Store is the full contract of the data-access layer. Callers outside this
// package (and their tests) can depend on it instead of *Storage.
//
// Every operation reports one of three outcomes: a value, an absence
// (nil record or false, with a nil error), or a store failure.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUser(ctx context.Context, id int) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUsers(ctx context.Context, f *UserFilters) ([]User, error)
	UpdateUser(ctx context.Context, id int, p *UserPatch) (*User, error)
	DeleteUser(ctx context.Context, id int) (bool, error)
	UpdateUserRating(ctx context.Context, userID int) (int, error)

	// Tenders
	CreateTender(ctx context.Context, t *Tender) (*Tender, error)
	GetTender(ctx context.Context, id int) (*Tender, error)
	GetTenders(ctx context.Context, f *TenderFilters) ([]Tender, error)
	UpdateTender(ctx context.Context, id int, p *TenderPatch) (*Tender, error)
	DeleteTender(ctx context.Context, id int) (bool, error)
	IncrementTenderViews(ctx context.Context, id int) error

	// Tender bids
	CreateTenderBid(ctx context.Context, b *TenderBid) (*TenderBid, error)
	GetTenderBid(ctx context.Context, id int) (*TenderBid, error)
	GetTenderBids(ctx context.Context, tenderID int) ([]TenderBid, error)
	GetUserTenderBids(ctx context.Context, bidderID int) ([]TenderBid, error)
	UpdateTenderBid(ctx context.Context, id int, p *TenderBidPatch) (*TenderBid, error)
	DeleteTenderBid(ctx context.Context, id int) (bool, error)
	AcceptTenderBid(ctx context.Context, bidID int) (*TenderBid, error)

	// Marketplace listings
	CreateListing(ctx context.Context, l *MarketplaceListing) (*MarketplaceListing, error)
	GetListing(ctx context.Context, id int) (*MarketplaceListing, error)
	GetListings(ctx context.Context, f *ListingFilters) ([]MarketplaceListing, error)
	UpdateListing(ctx context.Context, id int, p *MarketplaceListingPatch) (*MarketplaceListing, error)
	DeleteListing(ctx context.Context, id int) (bool, error)
	IncrementListingViews(ctx context.Context, id int) error

	// Messages
	CreateMessage(ctx context.Context, m *Message) (*Message, error)
	GetMessage(ctx context.Context, id int) (*Message, error)
	GetUserMessages(ctx context.Context, userID int) ([]Message, error)
	GetConversation(ctx context.Context, userA, userB int) ([]Message, error)
	MarkMessageRead(ctx context.Context, id int) (bool, error)

	// Reviews
	CreateReview(ctx context.Context, r *Review) (*Review, error)
	GetReview(ctx context.Context, id int) (*Review, error)
	GetUserReviews(ctx context.Context, recipientID int) ([]Review, error)
	DeleteReview(ctx context.Context, id int) (bool, error)

	// Delivery
	CreateDeliveryOption(ctx context.Context, o *DeliveryOption) (*DeliveryOption, error)
	GetDeliveryOption(ctx context.Context, id int) (*DeliveryOption, error)
	GetDeliveryOptionByName(ctx context.Context, name string) (*DeliveryOption, error)
	GetDeliveryOptions(ctx context.Context) ([]DeliveryOption, error)
	UpdateDeliveryOption(ctx context.Context, id int, p *DeliveryOptionPatch) (*DeliveryOption, error)
	DeleteDeliveryOption(ctx context.Context, id int) (bool, error)
	CreateDeliveryOrder(ctx context.Context, o *DeliveryOrder) (*DeliveryOrder, error)
	GetDeliveryOrder(ctx context.Context, id int) (*DeliveryOrder, error)
	GetUserDeliveryOrders(ctx context.Context, userID int) ([]DeliveryOrder, error)
	UpdateDeliveryOrderStatus(ctx context.Context, id int, status string) (*DeliveryOrder, error)
	UpdateDeliveryOrderTracking(ctx context.Context, id int, trackingCode string) (*DeliveryOrder, error)

	// Estimates
	CreateEstimate(ctx context.Context, e *Estimate) (*Estimate, error)
	GetEstimate(ctx context.Context, id int) (*Estimate, error)
	GetUserEstimates(ctx context.Context, userID int) ([]Estimate, error)
	GetTenderEstimates(ctx context.Context, tenderID int) ([]Estimate, error)
	UpdateEstimate(ctx context.Context, id int, p *EstimatePatch) (*Estimate, error)
	DeleteEstimate(ctx context.Context, id int) (bool, error)
	CreateEstimateItem(ctx context.Context, it *EstimateItem) (*EstimateItem, error)
	GetEstimateItem(ctx context.Context, id int) (*EstimateItem, error)
	GetEstimateItems(ctx context.Context, estimateID int) ([]EstimateItem, error)
	UpdateEstimateItem(ctx context.Context, id int, p *EstimateItemPatch) (*EstimateItem, error)
	DeleteEstimateItem(ctx context.Context, id int) (bool, error)

	// Design projects
	CreateDesignProject(ctx context.Context, p *DesignProject) (*DesignProject, error)
	GetDesignProject(ctx context.Context, id int) (*DesignProject, error)
	GetDesignProjects(ctx context.Context, f *DesignProjectFilters) ([]DesignProject, error)
	UpdateDesignProject(ctx context.Context, id int, p *DesignProjectPatch) (*DesignProject, error)
	DeleteDesignProject(ctx context.Context, id int) (bool, error)
	AddProjectVisualization(ctx context.Context, id int, url string) (*DesignProject, error)
	AddProjectFile(ctx context.Context, id int, url string) (*DesignProject, error)

	// Crews
	CreateCrew(ctx context.Context, c *Crew) (*Crew, error)
	GetCrew(ctx context.Context, id int) (*Crew, error)
	GetCrews(ctx context.Context, f *CrewFilters) ([]Crew, error)
	UpdateCrew(ctx context.Context, id int, p *CrewPatch) (*Crew, error)
	DeleteCrew(ctx context.Context, id int) (bool, error)
	CreateCrewMember(ctx context.Context, m *CrewMember) (*CrewMember, error)
	GetCrewMember(ctx context.Context, id int) (*CrewMember, error)
	GetCrewMembers(ctx context.Context, crewID int) ([]CrewMember, error)
	UpdateCrewMember(ctx context.Context, id int, p *CrewMemberPatch) (*CrewMember, error)
	DeleteCrewMember(ctx context.Context, id int) (bool, error)
	CreateCrewPortfolio(ctx context.Context, p *CrewPortfolio) (*CrewPortfolio, error)
	GetCrewPortfolio(ctx context.Context, id int) (*CrewPortfolio, error)
	GetCrewPortfolios(ctx context.Context, crewID int) ([]CrewPortfolio, error)
	DeleteCrewPortfolio(ctx context.Context, id int) (bool, error)
	AddCrewMemberSkill(ctx context.Context, sk *CrewMemberSkill) (*CrewMemberSkill, error)
	GetCrewMemberSkills(ctx context.Context, memberID int) ([]CrewMemberSkill, error)
	DeleteCrewMemberSkill(ctx context.Context, id int) (bool, error)

	// Bank guarantees
	CreateBankGuarantee(ctx context.Context, in *BankGuaranteeInput) (*BankGuarantee, error)
	GetBankGuarantee(ctx context.Context, id int) (*BankGuarantee, error)
	GetUserBankGuarantees(ctx context.Context, userID int) ([]BankGuarantee, error)
	UpdateBankGuarantee(ctx context.Context, id int, p *BankGuaranteePatch) (*BankGuarantee, error)
	UpdateBankGuaranteeStatus(ctx context.Context, id int, status string) (*BankGuarantee, error)
}

var _ Store = (*Storage)(nil)
