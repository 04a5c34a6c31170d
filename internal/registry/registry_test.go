// internal/registry/registry_test.go
package registry

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type captureSink struct {
	events []Event
}

func (s *captureSink) Emit(event Event) {
	s.events = append(s.events, event)
}

// memoryBank is a minimal balance map for exercising fee settlement.
type memoryBank struct {
	balances map[uuid.UUID]int64
}

func newMemoryBank() *memoryBank {
	return &memoryBank{balances: make(map[uuid.UUID]int64)}
}

func (b *memoryBank) Pay(from, to uuid.UUID, amount int64) error {
	if b.balances[from] < amount {
		return errors.New("insufficient funds")
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

type RegistryTestSuite struct {
	suite.Suite
	admin    uuid.UUID
	owner    uuid.UUID
	licensee uuid.UUID
	other    uuid.UUID
	bank     *memoryBank
	sink     *captureSink
	registry *Registry
}

func (s *RegistryTestSuite) SetupTest() {
	s.admin = uuid.New()
	s.owner = uuid.New()
	s.licensee = uuid.New()
	s.other = uuid.New()
	s.bank = newMemoryBank()
	s.sink = &captureSink{}
	s.registry = New(s.admin, s.bank, s.sink, "https://metadata.genevault.io/docs")
}

const testHash = "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3"

func (s *RegistryTestSuite) mint(recipient uuid.UUID) AssetID {
	id, err := s.registry.Mint(s.admin, recipient, "Gene Sequence Alpha", "Proprietary CRISPR sequence", testHash)
	require.NoError(s.T(), err)
	return id
}

func (s *RegistryTestSuite) execute(caller uuid.UUID, id AssetID) error {
	_, err := s.registry.Execute(caller, id)
	return err
}

func (s *RegistryTestSuite) TestMintAssignsSequentialIDs() {
	for i := 1; i <= 5; i++ {
		id := s.mint(s.owner)
		assert.Equal(s.T(), AssetID(i), id)
		assert.Equal(s.T(), AssetID(i), s.registry.LastID())
	}

	owner, ok := s.registry.OwnerOf(1)
	require.True(s.T(), ok)
	assert.Equal(s.T(), s.owner, owner)
	assert.True(s.T(), s.registry.AssetExists(3))
	assert.False(s.T(), s.registry.AssetExists(6))
}

func (s *RegistryTestSuite) TestMintAuthorizationAndInput() {
	_, err := s.registry.Mint(s.owner, s.owner, "Name", "Desc", testHash)
	assert.ErrorIs(s.T(), err, ErrNotAuthorized)

	_, err = s.registry.Mint(s.admin, s.owner, "", "Desc", testHash)
	assert.ErrorIs(s.T(), err, ErrInvalidInput)

	_, err = s.registry.Mint(s.admin, s.owner, "Name", "", testHash)
	assert.ErrorIs(s.T(), err, ErrInvalidInput)

	_, err = s.registry.Mint(s.admin, s.owner, "Name", "Desc", "not-a-hash")
	assert.ErrorIs(s.T(), err, ErrInvalidInput)

	// Failed mints never consume ids.
	assert.Equal(s.T(), AssetID(0), s.registry.LastID())
}

func (s *RegistryTestSuite) TestTransferRules() {
	id := s.mint(s.owner)

	// Caller must be the sender.
	err := s.registry.Transfer(s.other, id, s.owner, s.other)
	assert.ErrorIs(s.T(), err, ErrNotAuthorized)

	// Self-transfers are rejected.
	err = s.registry.Transfer(s.owner, id, s.owner, s.owner)
	assert.ErrorIs(s.T(), err, ErrNotAuthorized)

	// Sender must be the current owner.
	err = s.registry.Transfer(s.other, id, s.other, s.licensee)
	assert.ErrorIs(s.T(), err, ErrNotOwner)

	// Unknown assets report NotFound.
	err = s.registry.Transfer(s.owner, 99, s.owner, s.other)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	require.NoError(s.T(), s.registry.Transfer(s.owner, id, s.owner, s.other))
	owner, ok := s.registry.OwnerOf(id)
	require.True(s.T(), ok)
	assert.Equal(s.T(), s.other, owner)

	// Previous owner can no longer move it.
	err = s.registry.Transfer(s.owner, id, s.owner, s.licensee)
	assert.ErrorIs(s.T(), err, ErrNotOwner)
}

func (s *RegistryTestSuite) TestFreezeMetadataIsOneWay() {
	id := s.mint(s.owner)

	err := s.registry.FreezeMetadata(s.other, id)
	assert.ErrorIs(s.T(), err, ErrNotOwner)

	require.NoError(s.T(), s.registry.FreezeMetadata(s.owner, id))

	details, ok := s.registry.AssetDetails(id)
	require.True(s.T(), ok)
	assert.True(s.T(), details.MetadataFrozen)

	err = s.registry.FreezeMetadata(s.owner, id)
	assert.ErrorIs(s.T(), err, ErrMetadataFrozen)

	err = s.registry.FreezeMetadata(s.owner, 42)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *RegistryTestSuite) TestListValidation() {
	id := s.mint(s.owner)

	assert.ErrorIs(s.T(), s.registry.List(s.other, id, 1000, 5), ErrNotOwner)
	assert.ErrorIs(s.T(), s.registry.List(s.owner, 99, 1000, 5), ErrNotFound)
	assert.ErrorIs(s.T(), s.registry.List(s.owner, id, 0, 5), ErrZeroAmount)
	assert.ErrorIs(s.T(), s.registry.List(s.owner, id, -10, 5), ErrZeroAmount)
	assert.ErrorIs(s.T(), s.registry.List(s.owner, id, 1000, 101), ErrInvalidRoyalty)

	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 100))

	// Re-listing replaces the offer.
	require.NoError(s.T(), s.registry.List(s.owner, id, 2000, 0))
	listing, ok := s.registry.GetListing(id)
	require.True(s.T(), ok)
	assert.Equal(s.T(), int64(2000), listing.Fee)
	assert.Equal(s.T(), uint8(0), listing.RoyaltyPercent)
	assert.Equal(s.T(), s.owner, listing.Licensor)
	assert.True(s.T(), listing.Active)
}

func (s *RegistryTestSuite) TestDelistRequiresExistingListing() {
	id := s.mint(s.owner)

	err := s.registry.Delist(s.owner, id)
	assert.ErrorIs(s.T(), err, ErrListingNotFound)

	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))
	assert.ErrorIs(s.T(), s.registry.Delist(s.other, id), ErrNotOwner)
	require.NoError(s.T(), s.registry.Delist(s.owner, id))

	_, ok := s.registry.GetListing(id)
	assert.False(s.T(), ok)

	// Second delist fails as well.
	assert.ErrorIs(s.T(), s.registry.Delist(s.owner, id), ErrListingNotFound)
}

func (s *RegistryTestSuite) TestExecuteSettlesFeeAndRemovesListing() {
	id := s.mint(s.owner)
	require.NoError(s.T(), s.registry.List(s.owner, id, 1_000_000, 5))
	s.bank.balances[s.licensee] = 1_500_000

	settlement, err := s.registry.Execute(s.licensee, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.owner, settlement.Licensor)
	assert.Equal(s.T(), int64(1_000_000), settlement.Fee)

	assert.Equal(s.T(), int64(500_000), s.bank.balances[s.licensee])
	assert.Equal(s.T(), int64(1_000_000), s.bank.balances[s.owner])

	license, ok := s.registry.LicenseStatus(id, s.licensee)
	require.True(s.T(), ok)
	assert.True(s.T(), license.Active)
	assert.Zero(s.T(), license.RoyaltiesPaid)
	assert.NotZero(s.T(), license.Start)

	_, ok = s.registry.GetListing(id)
	assert.False(s.T(), ok, "listing must be removed on execution")
}

func (s *RegistryTestSuite) TestExecuteReportsSettledListing() {
	id := s.mint(s.owner)
	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))

	// The asset changes hands and is relisted before execution; the
	// settlement must reflect the listing actually consumed, not a stale
	// snapshot of the original one.
	require.NoError(s.T(), s.registry.Transfer(s.owner, id, s.owner, s.other))
	require.NoError(s.T(), s.registry.List(s.other, id, 2000, 10))
	s.bank.balances[s.licensee] = 5000

	settlement, err := s.registry.Execute(s.licensee, id)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.other, settlement.Licensor)
	assert.Equal(s.T(), int64(2000), settlement.Fee)
	assert.Equal(s.T(), int64(2000), s.bank.balances[s.other])
	assert.Zero(s.T(), s.bank.balances[s.owner])
}

func (s *RegistryTestSuite) TestRestoreResumesJournalPosition() {
	s.registry.Restore(7, 12)

	id := s.mint(s.owner)
	assert.Equal(s.T(), AssetID(8), id)
	require.Len(s.T(), s.sink.events, 1)
	assert.Equal(s.T(), uint64(13), s.sink.events[0].Sequence)

	// A stale checkpoint never rewinds live counters.
	s.registry.Restore(1, 1)
	assert.Equal(s.T(), AssetID(9), s.mint(s.owner))
	require.Len(s.T(), s.sink.events, 2)
	assert.Equal(s.T(), uint64(14), s.sink.events[1].Sequence)
}

func (s *RegistryTestSuite) TestExecuteGuards() {
	id := s.mint(s.owner)

	// No listing yet.
	assert.ErrorIs(s.T(), s.execute(s.licensee, id), ErrListingNotFound)

	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))

	// Licensor cannot license their own asset.
	assert.ErrorIs(s.T(), s.execute(s.owner, id), ErrNotAuthorized)

	// Payment rejection aborts atomically: no license, listing survives.
	err := s.execute(s.licensee, id)
	assert.ErrorIs(s.T(), err, ErrIncorrectPayment)
	_, ok := s.registry.LicenseStatus(id, s.licensee)
	assert.False(s.T(), ok)
	_, ok = s.registry.GetListing(id)
	assert.True(s.T(), ok)

	s.bank.balances[s.licensee] = 5000
	require.NoError(s.T(), s.execute(s.licensee, id))

	// Exclusivity: the listing is gone, a second licensee cannot execute.
	assert.ErrorIs(s.T(), s.execute(s.other, id), ErrListingNotFound)
}

func (s *RegistryTestSuite) TestExecuteRejectsDuplicateActiveLicense() {
	id := s.mint(s.owner)
	s.bank.balances[s.licensee] = 10_000

	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))
	require.NoError(s.T(), s.execute(s.licensee, id))

	// Owner re-lists; the same licensee still holds an active license.
	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))
	assert.ErrorIs(s.T(), s.execute(s.licensee, id), ErrAlreadyLicensed)

	// After revocation a fresh cycle is permitted for the same licensee.
	require.NoError(s.T(), s.registry.Revoke(s.owner, id, s.licensee))
	require.NoError(s.T(), s.execute(s.licensee, id))

	license, ok := s.registry.LicenseStatus(id, s.licensee)
	require.True(s.T(), ok)
	assert.True(s.T(), license.Active)
	assert.Zero(s.T(), license.RoyaltiesPaid, "a fresh license starts a new accumulator")
}

func (s *RegistryTestSuite) TestRoyaltyAccumulationIsMonotonic() {
	id := s.mint(s.owner)
	s.bank.balances[s.licensee] = 1_000_000
	require.NoError(s.T(), s.registry.List(s.owner, id, 100_000, 5))
	require.NoError(s.T(), s.execute(s.licensee, id))

	var sum int64
	last := int64(-1)
	for _, amount := range []int64{100, 2500, 40_000, 1} {
		require.NoError(s.T(), s.registry.PayRoyalty(s.licensee, id, amount))
		sum += amount

		total, ok := s.registry.TotalRoyalties(id, s.licensee)
		require.True(s.T(), ok)
		assert.Equal(s.T(), sum, total)
		assert.Greater(s.T(), total, last)
		last = total
	}
}

func (s *RegistryTestSuite) TestPayRoyaltyGuards() {
	id := s.mint(s.owner)

	assert.ErrorIs(s.T(), s.registry.PayRoyalty(s.licensee, id, 0), ErrZeroAmount)
	assert.ErrorIs(s.T(), s.registry.PayRoyalty(s.licensee, id, -5), ErrZeroAmount)
	assert.ErrorIs(s.T(), s.registry.PayRoyalty(s.licensee, 99, 100), ErrNotFound)
	assert.ErrorIs(s.T(), s.registry.PayRoyalty(s.licensee, id, 100), ErrLicenseInactive)

	s.bank.balances[s.licensee] = 1000
	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))
	require.NoError(s.T(), s.execute(s.licensee, id))

	// Insufficient funds abort without touching the accumulator.
	err := s.registry.PayRoyalty(s.licensee, id, 9999)
	assert.ErrorIs(s.T(), err, ErrIncorrectPayment)
	total, ok := s.registry.TotalRoyalties(id, s.licensee)
	require.True(s.T(), ok)
	assert.Zero(s.T(), total)
}

func (s *RegistryTestSuite) TestRoyaltiesRouteToCurrentOwner() {
	id := s.mint(s.owner)
	s.bank.balances[s.licensee] = 100_000
	require.NoError(s.T(), s.registry.List(s.owner, id, 10_000, 5))
	require.NoError(s.T(), s.execute(s.licensee, id))

	// Ownership changes mid-license; royalties follow the new owner,
	// while the execution fee stayed with the listing-time licensor.
	require.NoError(s.T(), s.registry.Transfer(s.owner, id, s.owner, s.other))
	require.NoError(s.T(), s.registry.PayRoyalty(s.licensee, id, 5000))

	assert.Equal(s.T(), int64(10_000), s.bank.balances[s.owner])
	assert.Equal(s.T(), int64(5000), s.bank.balances[s.other])
}

func (s *RegistryTestSuite) TestRevokeGuards() {
	id := s.mint(s.owner)
	s.bank.balances[s.licensee] = 10_000
	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))
	require.NoError(s.T(), s.execute(s.licensee, id))

	assert.ErrorIs(s.T(), s.registry.Revoke(s.other, id, s.licensee), ErrNotOwner)
	assert.ErrorIs(s.T(), s.registry.Revoke(s.owner, 99, s.licensee), ErrNotFound)
	assert.ErrorIs(s.T(), s.registry.Revoke(s.owner, id, s.other), ErrLicenseInactive)

	require.NoError(s.T(), s.registry.Revoke(s.owner, id, s.licensee))
	license, ok := s.registry.LicenseStatus(id, s.licensee)
	require.True(s.T(), ok)
	assert.False(s.T(), license.Active)

	// Revocation is one-way for the instance.
	assert.ErrorIs(s.T(), s.registry.Revoke(s.owner, id, s.licensee), ErrLicenseInactive)
}

// TestFullLicensingScenario walks the canonical lifecycle end to end.
func (s *RegistryTestSuite) TestFullLicensingScenario() {
	id, err := s.registry.Mint(s.admin, s.owner, "Gene Sequence Alpha", "Proprietary CRISPR sequence", testHash)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), AssetID(1), id)

	require.NoError(s.T(), s.registry.List(s.owner, id, 1_000_000, 5))

	s.bank.balances[s.licensee] = 2_000_000
	require.NoError(s.T(), s.execute(s.licensee, id))
	assert.Equal(s.T(), int64(1_000_000), s.bank.balances[s.owner])

	license, ok := s.registry.LicenseStatus(id, s.licensee)
	require.True(s.T(), ok)
	assert.True(s.T(), license.Active)
	assert.Zero(s.T(), license.RoyaltiesPaid)

	require.NoError(s.T(), s.registry.PayRoyalty(s.licensee, id, 100_000))
	total, ok := s.registry.TotalRoyalties(id, s.licensee)
	require.True(s.T(), ok)
	assert.Equal(s.T(), int64(100_000), total)

	require.NoError(s.T(), s.registry.Revoke(s.owner, id, s.licensee))
	license, ok = s.registry.LicenseStatus(id, s.licensee)
	require.True(s.T(), ok)
	assert.False(s.T(), license.Active)

	err = s.registry.PayRoyalty(s.licensee, id, 1000)
	assert.ErrorIs(s.T(), err, ErrLicenseInactive)
}

func (s *RegistryTestSuite) TestEventsEmittedOncePerSuccessfulOperation() {
	id := s.mint(s.owner)
	require.NoError(s.T(), s.registry.List(s.owner, id, 1000, 5))

	// A failed operation emits nothing.
	assert.Error(s.T(), s.execute(s.licensee, id))
	assert.Len(s.T(), s.sink.events, 2)

	s.bank.balances[s.licensee] = 10_000
	require.NoError(s.T(), s.execute(s.licensee, id))
	require.NoError(s.T(), s.registry.PayRoyalty(s.licensee, id, 500))
	require.NoError(s.T(), s.registry.Revoke(s.owner, id, s.licensee))

	kinds := make([]EventKind, 0, len(s.sink.events))
	for _, event := range s.sink.events {
		kinds = append(kinds, event.Kind)
	}
	assert.Equal(s.T(), []EventKind{
		EventMinted, EventListed, EventLicenseExecuted, EventRoyaltyPaid, EventLicenseRevoked,
	}, kinds)

	// Sequence numbers strictly increase.
	for i := 1; i < len(s.sink.events); i++ {
		assert.Greater(s.T(), s.sink.events[i].Sequence, s.sink.events[i-1].Sequence)
	}
}

func (s *RegistryTestSuite) TestTokenURI() {
	id := s.mint(s.owner)

	uri, ok := s.registry.TokenURI(id)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "https://metadata.genevault.io/docs/"+testHash, uri)

	_, ok = s.registry.TokenURI(99)
	assert.False(s.T(), ok)
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
