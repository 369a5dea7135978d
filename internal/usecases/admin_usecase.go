package usecases

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"hgigs.backend/internal/domain/entities"
	domainerrors "hgigs.backend/internal/domain/errors"
)

// AdminUsecase holds the owner-only operations of the marketplace. They are not gated by pause.
type AdminUsecase struct {
	engine *EscrowUsecase
}

func NewAdminUsecase(engine *EscrowUsecase) *AdminUsecase {
	return &AdminUsecase{engine: engine}
}

func requireOwner(state *entities.EngineState, caller common.Address) error {
	if state.Owner != caller {
		return domainerrors.ErrNotOwner
	}
	return nil
}

// SetPlatformFee changes the fee applied to orders paid from now on.
func (uc *AdminUsecase) SetPlatformFee(ctx context.Context, caller common.Address, percent uint8) (*entities.EngineState, error) {
	var result *entities.EngineState
	err := uc.engine.mutate(ctx, "SetPlatformFee", false, func(ctx context.Context, state *entities.EngineState) error {
		if err := requireOwner(state, caller); err != nil {
			return err
		}
		if percent > entities.MaxFeePercent {
			return domainerrors.InvalidInput("platform fee must be between 0 and %d", entities.MaxFeePercent)
		}

		previous := state.PlatformFeePercent
		state.PlatformFeePercent = percent
		if err := uc.engine.stateRepo.Save(ctx, state); err != nil {
			return err
		}
		result = state

		_, err := uc.engine.events.record(ctx, eventInput{
			Type:  entities.MarketEventPlatformFeeUpdated,
			Actor: caller,
			Metadata: map[string]string{
				"previous": strconv.Itoa(int(previous)),
				"current":  strconv.Itoa(int(percent)),
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Pause blocks every gated engine operation until Unpause.
func (uc *AdminUsecase) Pause(ctx context.Context, caller common.Address) error {
	return uc.setPaused(ctx, caller, true)
}

// Unpause lifts the pause.
func (uc *AdminUsecase) Unpause(ctx context.Context, caller common.Address) error {
	return uc.setPaused(ctx, caller, false)
}

func (uc *AdminUsecase) setPaused(ctx context.Context, caller common.Address, paused bool) error {
	operation, eventType := "Unpause", entities.MarketEventUnpaused
	if paused {
		operation, eventType = "Pause", entities.MarketEventPaused
	}

	return uc.engine.mutate(ctx, operation, false, func(ctx context.Context, state *entities.EngineState) error {
		if err := requireOwner(state, caller); err != nil {
			return err
		}
		if state.Paused == paused {
			if paused {
				return domainerrors.ErrAlreadyPaused
			}
			return domainerrors.ErrNotPaused
		}

		state.Paused = paused
		if err := uc.engine.stateRepo.Save(ctx, state); err != nil {
			return err
		}

		_, err := uc.engine.events.record(ctx, eventInput{Type: eventType, Actor: caller})
		return err
	})
}

// TransferOwnership hands the owner role, and with it the fee income, to newOwner.
func (uc *AdminUsecase) TransferOwnership(ctx context.Context, caller, newOwner common.Address) error {
	return uc.engine.mutate(ctx, "TransferOwnership", false, func(ctx context.Context, state *entities.EngineState) error {
		if err := requireOwner(state, caller); err != nil {
			return err
		}
		if newOwner == (common.Address{}) {
			return domainerrors.InvalidInput("new owner must not be the zero address")
		}
		if newOwner == uc.engine.escrow {
			return domainerrors.InvalidInput("new owner must not be the escrow address")
		}

		state.Owner = newOwner
		if err := uc.engine.stateRepo.Save(ctx, state); err != nil {
			return err
		}

		_, err := uc.engine.events.record(ctx, eventInput{
			Type:     entities.MarketEventOwnershipTransferred,
			Actor:    caller,
			Metadata: map[string]string{"previousOwner": caller.Hex(), "newOwner": newOwner.Hex()},
		})
		return err
	})
}

// SetAccountFrozen marks a custody account as unable to receive funds.
func (uc *AdminUsecase) SetAccountFrozen(ctx context.Context, caller, address, token common.Address, frozen bool) error {
	return uc.engine.mutate(ctx, "SetAccountFrozen", false, func(ctx context.Context, state *entities.EngineState) error {
		if err := requireOwner(state, caller); err != nil {
			return err
		}
		if err := uc.engine.ledger.SetFrozen(ctx, address, token, frozen); err != nil {
			return err
		}

		_, err := uc.engine.events.record(ctx, eventInput{
			Type:  entities.MarketEventAccountFrozen,
			Actor: caller,
			Token: token,
			Metadata: map[string]string{
				"account": address.Hex(),
				"frozen":  strconv.FormatBool(frozen),
			},
		})
		return err
	})
}
