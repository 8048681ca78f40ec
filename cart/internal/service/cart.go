package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/cache"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
)

const activeCartIndex = "carts_one_active_per_user_idx"

type CartService struct {
	pool     *pgxpool.Pool
	queries  *repository.Queries
	products cache.ProductCache
	metrics  *metrics.Metrics
}

func NewCartService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	products cache.ProductCache,
	metrics *metrics.Metrics,
) *CartService {
	return &CartService{pool: pool, queries: queries, products: products, metrics: metrics}
}

func (svc *CartService) CreateCart(c context.Context, userId uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService CreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService CreateCart").
		Str(constants.KEY_USER_ID, userId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user").Logger()
	logger.Trace().Msg("finding user")
	if _, err := svc.queries.FindUserById(c, userId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrUserNotFound
		}
		err = fmt.Errorf("failed finding userId=%s with error=%w", userId, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msg("found user")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding active cart").Logger()
	logger.Trace().Msg("finding active cart")
	existing, err := svc.queries.FindActiveCartByUserId(c, userId)
	if err == nil {
		err = fmt.Errorf("found active cartId=%s with error=%w", existing.ID, inErrors.ErrCartAlreadyExists)
		inOtel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding active cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msg("no active cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting cart").Logger()
	logger.Trace().Msg("inserting cart")
	cart, err := svc.queries.InsertCart(c, userId)
	if err != nil {
		if infra.IsUniqueViolation(err, activeCartIndex) {
			err = inErrors.ErrCartAlreadyExists
		}
		err = fmt.Errorf("failed inserting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Str(constants.KEY_CART_ID, cart.ID.String()).Msg("inserted cart")

	return cart.Response(), nil
}

// FindActiveCart returns the user's active cart together with its items.
func (svc *CartService) FindActiveCart(c context.Context, userId uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindActiveCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService FindActiveCart").
		Str(constants.KEY_USER_ID, userId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding active cart").Logger()
	cart, err := svc.queries.FindActiveCartByUserId(c, userId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding active cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items").Logger()
	items, err := svc.queries.FindCartItemsByCartId(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Int(constants.KEY_CART_ITEMS, len(items)).Msg("found active cart")

	res := cart.Response()
	res.CartItems = make([]response.CartItem, 0, len(items))
	for _, item := range items {
		res.CartItems = append(res.CartItems, item.Response())
	}
	return res, nil
}

func (svc *CartService) FindCartItems(
	c context.Context,
	userId uuid.UUID,
	cartId uuid.UUID,
) ([]response.CartItem, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService FindCartItems").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart").Logger()
	_, err := svc.queries.FindCartById(c, repository.FindCartByIdParams{ID: cartId, UserID: userId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items").Logger()
	items, err := svc.queries.FindCartItemsByCartId(c, cartId)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_CART_ITEMS, len(items)).Msg("found cart items")

	res := make([]response.CartItem, 0, len(items))
	for _, item := range items {
		res = append(res, item.Response())
	}
	return res, nil
}

// UpdateCartStatus only moves an active cart to archived. Every reserved item
// goes back to stock in the same transaction.
func (svc *CartService) UpdateCartStatus(
	c context.Context,
	userId uuid.UUID,
	cartId uuid.UUID,
	status string,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateCartStatus")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService UpdateCartStatus").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_STATUS, status).
		Logger()

	if repository.CartStatus(status) != repository.CartStatusArchived {
		err := fmt.Errorf("failed updating cart to status=%s with error=%w", status, inErrors.ErrInvalidCartStatus)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	cart, err := qtx.FindCartByIdForUpdate(c, repository.FindCartByIdForUpdateParams{ID: cartId, UserID: userId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed locking cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	if cart.Status != repository.CartStatusActive {
		err = fmt.Errorf("failed archiving cart in status=%s with error=%w", cart.Status, inErrors.ErrCartTerminal)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "releasing cart items").Logger()
	productIds, err := svc.restockCartItems(c, qtx, cartId)
	if err != nil {
		err = fmt.Errorf("failed releasing cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Int(constants.KEY_PRODUCTS, len(productIds)).Msg("released cart items")

	logger = logger.With().Str(constants.KEY_PROCESS, "archiving cart").Logger()
	cart, err = qtx.ArchiveCart(c, repository.ArchiveCartParams{ID: cartId, UserID: userId})
	if err != nil {
		err = fmt.Errorf("failed archiving cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("archived cart")

	svc.products.Invalidate(logger.WithContext(c), productIds...)
	return cart.Response(), nil
}

// DeleteCart removes the cart and its items. Items of an active cart are
// returned to stock first. A checked out cart belongs to its order and is
// never deleted.
func (svc *CartService) DeleteCart(
	c context.Context,
	userId uuid.UUID,
	cartId uuid.UUID,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService DeleteCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService DeleteCart").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	cart, err := qtx.FindCartByIdForUpdate(c, repository.FindCartByIdForUpdateParams{ID: cartId, UserID: userId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed locking cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	if cart.Status == repository.CartStatusCheckedOut {
		err = fmt.Errorf("failed deleting cart with status=%s with error=%w", cart.Status, inErrors.ErrCartTerminal)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	var productIds []uuid.UUID
	if cart.Status == repository.CartStatusActive {
		logger = logger.With().Str(constants.KEY_PROCESS, "releasing cart items").Logger()
		productIds, err = svc.restockCartItems(c, qtx, cartId)
		if err != nil {
			err = fmt.Errorf("failed releasing cart items with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Cart{}, err
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart").Logger()
	cart, err = qtx.DeleteCart(c, repository.DeleteCartParams{ID: cartId, UserID: userId})
	if err != nil {
		err = fmt.Errorf("failed deleting cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted cart")

	svc.products.Invalidate(logger.WithContext(c), productIds...)
	return cart.Response(), nil
}

// restockCartItems must run while the cart row is locked. Products are
// touched in id order so concurrent restocks cannot deadlock.
func (svc *CartService) restockCartItems(
	c context.Context,
	qtx *repository.Queries,
	cartId uuid.UUID,
) ([]uuid.UUID, error) {
	items, err := qtx.FindCartItemsByCartId(c, cartId)
	if err != nil {
		return nil, fmt.Errorf("failed finding cart items with error=%w", err)
	}
	slices.SortFunc(items, func(a, b repository.FindCartItemsByCartIdRow) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
	productIds := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		_, err = qtx.IncrementProductStock(c, repository.IncrementProductStockParams{
			Quantity: item.Quantity,
			ID:       item.ProductID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed restocking productId=%s with error=%w", item.ProductID, err)
		}
		productIds = append(productIds, item.ProductID)
	}
	return productIds, nil
}
