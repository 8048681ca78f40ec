package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/infra"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
)

const (
	operationAdd    = "add"
	operationUpdate = "update"
)

// lockActiveCart takes the row lock every cart item mutation starts with.
func lockActiveCart(
	c context.Context,
	qtx *repository.Queries,
	userId uuid.UUID,
	cartId uuid.UUID,
) (repository.Cart, error) {
	cart, err := qtx.FindCartByIdForUpdate(c, repository.FindCartByIdForUpdateParams{ID: cartId, UserID: userId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Cart{}, inErrors.ErrCartNotFound
		}
		return repository.Cart{}, err
	}
	if cart.Status != repository.CartStatusActive {
		return repository.Cart{}, fmt.Errorf("cart status=%s with error=%w", cart.Status, inErrors.ErrCartNotActive)
	}
	return cart, nil
}

// reserveStock takes quantity units of the product or fails with
// ErrInsufficientStock, leaving stock untouched.
func (svc *CartService) reserveStock(
	c context.Context,
	qtx *repository.Queries,
	productId uuid.UUID,
	quantity int32,
	operation string,
) error {
	_, err := qtx.DecrementProductStock(c, repository.DecrementProductStockParams{
		Quantity: quantity,
		ID:       productId,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		svc.metrics.StockRejections.WithLabelValues(operation).Inc()
		return fmt.Errorf("failed reserving quantity=%d of productId=%s with error=%w", quantity, productId, inErrors.ErrInsufficientStock)
	}
	if err != nil {
		return fmt.Errorf("failed reserving quantity=%d of productId=%s with error=%w", quantity, productId, err)
	}
	return nil
}

func (svc *CartService) AddCartItem(
	c context.Context,
	userId uuid.UUID,
	cartId uuid.UUID,
	param request.InsertCartItem,
) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService AddCartItem").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_PRODUCT_ID, param.ProductID.String()).
		Int32(constants.KEY_QUANTITY, param.Quantity).
		Logger()

	if param.Quantity <= 0 {
		err := fmt.Errorf("failed adding quantity=%d with error=%w", param.Quantity, inErrors.ErrInvalidQuantity)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	logger.Trace().Msg("locking cart")
	if _, err = lockActiveCart(c, qtx, userId, cartId); err != nil {
		err = fmt.Errorf("failed locking cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Trace().Msg("finding product")
	if _, err = qtx.FindProductById(c, param.ProductID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "reserving stock").Logger()
	logger.Trace().Msg("reserving stock")
	if err = svc.reserveStock(c, qtx, param.ProductID, param.Quantity, operationAdd); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger.Trace().Msg("reserved stock")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart item").Logger()
	logger.Trace().Msg("inserting cart item")
	item, err := qtx.InsertCartItem(c, repository.InsertCartItemParams{
		CartID:    cartId,
		ProductID: param.ProductID,
		Quantity:  param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger = logger.With().Str(constants.KEY_CART_ITEM_ID, item.ID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger.Info().Msg("added cart item")

	svc.products.Invalidate(logger.WithContext(c), param.ProductID)
	return item.Response(), nil
}

// UpdateCartItem moves stock by the difference between the new and the old
// quantity.
func (svc *CartService) UpdateCartItem(
	c context.Context,
	userId uuid.UUID,
	cartId uuid.UUID,
	itemId uuid.UUID,
	param request.UpdateCartItem,
) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService UpdateCartItem").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_CART_ITEM_ID, itemId.String()).
		Int32(constants.KEY_QUANTITY, param.Quantity).
		Logger()

	if param.Quantity <= 0 {
		err := fmt.Errorf("failed updating to quantity=%d with error=%w", param.Quantity, inErrors.ErrInvalidQuantity)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	if _, err = lockActiveCart(c, qtx, userId, cartId); err != nil {
		err = fmt.Errorf("failed locking cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart item").Logger()
	existing, err := qtx.FindCartItemByIdForUpdate(c, repository.FindCartItemByIdForUpdateParams{ID: itemId, CartID: cartId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartItemNotFound
		}
		err = fmt.Errorf("failed locking cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	delta := param.Quantity - existing.Quantity
	logger = logger.With().
		Str(constants.KEY_PRODUCT_ID, existing.ProductID.String()).
		Int32(constants.KEY_DELTA, delta).
		Logger()
	switch {
	case delta > 0:
		logger = logger.With().Str(constants.KEY_PROCESS, "reserving stock").Logger()
		if err = svc.reserveStock(c, qtx, existing.ProductID, delta, operationUpdate); err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.CartItem{}, err
		}
	case delta < 0:
		logger = logger.With().Str(constants.KEY_PROCESS, "releasing stock").Logger()
		_, err = qtx.IncrementProductStock(c, repository.IncrementProductStockParams{
			Quantity: -delta,
			ID:       existing.ProductID,
		})
		if err != nil {
			err = fmt.Errorf("failed releasing stock with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.CartItem{}, err
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating cart item").Logger()
	item, err := qtx.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		ID:       itemId,
		CartID:   cartId,
		Quantity: param.Quantity,
	})
	if err != nil {
		err = fmt.Errorf("failed updating cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger.Info().Msg("updated cart item")

	if delta != 0 {
		svc.products.Invalidate(logger.WithContext(c), existing.ProductID)
	}
	return item.Response(), nil
}

func (svc *CartService) RemoveCartItem(
	c context.Context,
	userId uuid.UUID,
	cartId uuid.UUID,
	itemId uuid.UUID,
) (response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService RemoveCartItem").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_CART_ITEM_ID, itemId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	if _, err = lockActiveCart(c, qtx, userId, cartId); err != nil {
		err = fmt.Errorf("failed locking cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart item").Logger()
	item, err := qtx.DeleteCartItem(c, repository.DeleteCartItemParams{ID: itemId, CartID: cartId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartItemNotFound
		}
		err = fmt.Errorf("failed deleting cart item with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger = logger.With().
		Str(constants.KEY_PRODUCT_ID, item.ProductID.String()).
		Int32(constants.KEY_QUANTITY, item.Quantity).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "releasing stock").Logger()
	_, err = qtx.IncrementProductStock(c, repository.IncrementProductStockParams{
		Quantity: item.Quantity,
		ID:       item.ProductID,
	})
	if err != nil {
		err = fmt.Errorf("failed releasing stock with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CartItem{}, err
	}
	logger.Info().Msg("removed cart item")

	svc.products.Invalidate(logger.WithContext(c), item.ProductID)
	return item.Response(), nil
}
