// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

package storeapi

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/cartkit-project/cartkit/lib/codec"
	"github.com/cartkit-project/cartkit/lib/schema/store"
)

// dialTimeout is the maximum time to wait for a connection to the
// service socket. Covers only the connect phase.
const dialTimeout = 5 * time.Second

// responseReadTimeout is how long the client waits for the server to
// send a response after writing the request.
const responseReadTimeout = 30 * time.Second

// maxResponseSize is the maximum size of a single CBOR response.
// Matches the server's maxRequestSize for symmetry.
const maxResponseSize = 1024 * 1024

// Client sends CBOR requests to the store service socket. Each call
// opens a new connection (matching the server's one-request-per-
// connection model), sends the request, reads the response, and closes
// the connection.
//
// Every request carries a fresh request id so client and server logs
// can be correlated.
type Client struct {
	socketPath string
}

// NewClient creates a client for the store service listening at
// socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Call sends a CBOR request for the given action and decodes the
// response.
//
// The fields map may contain any action-specific request fields; Call
// adds "action" and "request_id" automatically. Pass nil for actions
// that take no parameters.
//
// On success (ok=true), if result is non-nil and the response contains
// data, the data is CBOR-decoded into result. On failure (ok=false),
// returns a *ServiceError. Connection and encoding errors are returned
// as plain wrapped errors.
func (c *Client) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := make(map[string]any, len(fields)+2)
	for key, value := range fields {
		request[key] = value
	}
	request["action"] = action
	request["request_id"] = uuid.NewString()

	response, err := c.send(ctx, request)
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", action, c.socketPath, err)
	}

	if !response.OK {
		return &ServiceError{
			Action:  action,
			Code:    response.Code,
			Message: response.Error,
		}
	}

	if result != nil && len(response.Data) > 0 {
		if err := codec.Unmarshal(response.Data, result); err != nil {
			return fmt.Errorf("decoding response data for %q: %w", action, err)
		}
	}

	return nil
}

// send connects to the socket, writes the request, and reads the
// response. Each call creates a new connection.
func (c *Client) send(ctx context.Context, request any) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	// Half-close the write side. CBOR is self-delimiting so this isn't
	// strictly necessary, but it lets the server's read side see EOF
	// cleanly.
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &response, nil
}

// Client implements the full API interface.
var _ API = (*Client)(nil)

func (c *Client) CreateOrGetCart(ctx context.Context, sessionID string) (*store.Cart, error) {
	var cart store.Cart
	err := c.Call(ctx, store.ActionCreateOrGetCart, map[string]any{
		"session_id": sessionID,
	}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) GetCart(ctx context.Context, cartID int64) (*store.Cart, error) {
	var cart store.Cart
	err := c.Call(ctx, store.ActionGetCart, map[string]any{
		"cart_id": cartID,
	}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, cartID, productID, quantity int64) error {
	return c.Call(ctx, store.ActionAddCartItem, map[string]any{
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, cartID, itemID int64) error {
	return c.Call(ctx, store.ActionRemoveCartItem, map[string]any{
		"cart_id": cartID,
		"item_id": itemID,
	}, nil)
}

func (c *Client) GetBilling(ctx context.Context, cartID int64) (*store.BillingSnapshot, error) {
	var billing store.BillingSnapshot
	err := c.Call(ctx, store.ActionGetBilling, map[string]any{
		"cart_id": cartID,
	}, &billing)
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

// verifyResult is the wire shape of a verify-item response.
type verifyResult struct {
	Verified bool   `cbor:"verified"`
	Message  string `cbor:"message"`
}

func (c *Client) VerifyItem(ctx context.Context, cartID, productID int64) (string, error) {
	var result verifyResult
	err := c.Call(ctx, store.ActionVerifyItem, map[string]any{
		"cart_id":    cartID,
		"product_id": productID,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Message, nil
}

// productList is the wire shape of list-of-product responses.
type productList struct {
	Products []store.Product `cbor:"products"`
}

func (c *Client) SearchProducts(ctx context.Context, query string, limit int64) ([]store.Product, error) {
	var result productList
	err := c.Call(ctx, store.ActionSearchProducts, map[string]any{
		"query": query,
		"limit": limit,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Products, nil
}

func (c *Client) GetProductByBarcode(ctx context.Context, barcode string) (*store.Product, error) {
	var product store.Product
	err := c.Call(ctx, store.ActionGetProductByBarcode, map[string]any{
		"barcode": barcode,
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) GetRoute(ctx context.Context, cartID, targetProductID int64) (*store.Route, error) {
	var route store.Route
	err := c.Call(ctx, store.ActionGetRoute, map[string]any{
		"cart_id":           cartID,
		"target_product_id": targetProductID,
	}, &route)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (c *Client) GetRecommendations(ctx context.Context, cartID int64) (*store.RecommendationSet, error) {
	var set store.RecommendationSet
	err := c.Call(ctx, store.ActionGetRecommendations, map[string]any{
		"cart_id": cartID,
	}, &set)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *Client) GeneratePaymentQR(ctx context.Context, cartID int64) (*store.PaymentQR, error) {
	var qr store.PaymentQR
	err := c.Call(ctx, store.ActionGeneratePaymentQR, map[string]any{
		"cart_id": cartID,
	}, &qr)
	if err != nil {
		return nil, err
	}
	return &qr, nil
}

func (c *Client) ProcessPayment(ctx context.Context, cartID int64, method string) (*store.PaymentResult, error) {
	var result store.PaymentResult
	err := c.Call(ctx, store.ActionProcessPayment, map[string]any{
		"cart_id":        cartID,
		"payment_method": method,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetOverview(ctx context.Context) (*store.DashboardOverview, error) {
	var overview store.DashboardOverview
	if err := c.Call(ctx, store.ActionGetOverview, nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// popularList is the wire shape of the popular-products response.
type popularList struct {
	Products []store.PopularProduct `cbor:"products"`
}

func (c *Client) GetPopularProducts(ctx context.Context, days, limit int64) ([]store.PopularProduct, error) {
	var result popularList
	err := c.Call(ctx, store.ActionGetPopularProducts, map[string]any{
		"days":  days,
		"limit": limit,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Products, nil
}

// activeCartList is the wire shape of the active-carts response.
type activeCartList struct {
	Carts []store.ActiveCartSummary `cbor:"carts"`
}

func (c *Client) GetActiveCarts(ctx context.Context) ([]store.ActiveCartSummary, error) {
	var result activeCartList
	if err := c.Call(ctx, store.ActionGetActiveCarts, nil, &result); err != nil {
		return nil, err
	}
	return result.Carts, nil
}

// alertsSummaryResult is the wire shape of the alerts-summary response.
type alertsSummaryResult struct {
	Summary store.AlertsSummary `cbor:"summary"`
}

func (c *Client) GetAlertsSummary(ctx context.Context, days int64) (store.AlertsSummary, error) {
	var result alertsSummaryResult
	err := c.Call(ctx, store.ActionGetAlertsSummary, map[string]any{
		"days": days,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Summary, nil
}
