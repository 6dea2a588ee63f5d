package database

// User queries
const (
	InsertUserSQL = `
		INSERT INTO users (username, hashed_password, role)
		VALUES ($1, $2, $3)
		RETURNING id, username, hashed_password, role, created_at, updated_at`

	UpsertAdminUserSQL = `
		INSERT INTO users (username, hashed_password, role)
		VALUES ($1, $2, 'admin')
		ON CONFLICT (username) DO UPDATE SET
			hashed_password = EXCLUDED.hashed_password,
			role = 'admin',
			updated_at = NOW()
		RETURNING id, username, hashed_password, role, created_at, updated_at`

	GetUserByUsernameSQL = `
		SELECT id, username, hashed_password, role, created_at, updated_at
		FROM users WHERE username = $1`
)

// Menu queries
const (
	menuItemColumns = `id, name, description, price, category, image_url, is_available, created_at, updated_at`

	ListMenuItemsSQL = `
		SELECT ` + menuItemColumns + `
		FROM menu_items
		ORDER BY category NULLS LAST, name`

	GetMenuItemSQL = `
		SELECT ` + menuItemColumns + `
		FROM menu_items WHERE id = $1`

	LockMenuItemSQL = `
		SELECT ` + menuItemColumns + `
		FROM menu_items WHERE id = $1
		FOR UPDATE`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (name, description, price, category, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + menuItemColumns

	UpdateMenuItemSQL = `
		UPDATE menu_items SET
			name = $2, description = $3, price = $4, category = $5,
			image_url = $6, is_available = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + menuItemColumns

	DeleteMenuItemSQL = `DELETE FROM menu_items WHERE id = $1`
)

// Reservation queries. Date and time are exchanged in their text forms.
const (
	reservationColumns = `id, customer_name, customer_email, customer_phone,
		reservation_date::text, reservation_time::text, number_of_guests, status, notes,
		created_at, updated_at`

	ListReservationsSQL = `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE ($1::date IS NULL OR reservation_date = $1::date)
		ORDER BY reservation_date, reservation_time`

	GetReservationSQL = `
		SELECT ` + reservationColumns + `
		FROM reservations WHERE id = $1`

	LockReservationSQL = `
		SELECT ` + reservationColumns + `
		FROM reservations WHERE id = $1
		FOR UPDATE`

	InsertReservationSQL = `
		INSERT INTO reservations (customer_name, customer_email, customer_phone,
			reservation_date, reservation_time, number_of_guests, status, notes)
		VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $8)
		RETURNING ` + reservationColumns

	UpdateReservationSQL = `
		UPDATE reservations SET
			customer_name = $2, customer_email = $3, customer_phone = $4,
			reservation_date = $5::date, reservation_time = $6::time,
			number_of_guests = $7, status = $8, notes = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + reservationColumns

	DeleteReservationSQL = `DELETE FROM reservations WHERE id = $1`

	DeleteAllReservationsSQL = `DELETE FROM reservations`
)

// Order queries
const (
	orderColumns = `id, reservation_id, total_amount, order_date, created_at, updated_at`

	InsertOrderSQL = `
		INSERT INTO orders (reservation_id, total_amount)
		VALUES ($1, 0)
		RETURNING ` + orderColumns

	OrderExistsForReservationSQL = `
		SELECT EXISTS (SELECT 1 FROM orders WHERE reservation_id = $1)`

	GetOrderSQL = `
		SELECT ` + orderColumns + `
		FROM orders WHERE id = $1`

	LockOrderSQL = `
		SELECT ` + orderColumns + `
		FROM orders WHERE id = $1
		FOR UPDATE`

	GetOrderByReservationSQL = `
		SELECT ` + orderColumns + `
		FROM orders WHERE reservation_id = $1`

	ListOrdersSQL = `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY order_date DESC`

	SetOrderTotalSQL = `
		UPDATE orders SET total_amount = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns

	DeleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	DeleteAllOrdersSQL = `DELETE FROM orders`

	MenuItemPricesSQL = `
		SELECT id, price FROM menu_items WHERE id = ANY($1::uuid[])`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, quantity, price_at_order, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	DeleteOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	ListOrderItemsSQL = `
		SELECT oi.id, oi.order_id, oi.menu_item_id, m.name, oi.quantity, oi.price_at_order, oi.subtotal
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.order_id, m.name, oi.id`
)

// Revenue queries. $1 and $2 are optional inclusive date bounds.
const (
	UpsertRevenueRecordSQL = `
		INSERT INTO revenue_records (order_id, reservation_id, amount, record_date)
		VALUES ($1, $2, $3, $4::date)
		ON CONFLICT (order_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			record_date = EXCLUDED.record_date`

	// SetRevenueRecordDateSQL follows a reservation's date change.
	SetRevenueRecordDateSQL = `
		UPDATE revenue_records SET record_date = $2::date
		WHERE reservation_id = $1 AND record_date <> $2::date`

	ListRevenueRecordsSQL = `
		SELECT id, order_id, reservation_id, amount, record_date::text, created_at
		FROM revenue_records
		WHERE ($1::date IS NULL OR record_date >= $1::date)
		  AND ($2::date IS NULL OR record_date <= $2::date)
		ORDER BY record_date DESC, created_at DESC`

	RevenueSummarySQL = `
		SELECT COALESCE(SUM(amount), 0)
		FROM revenue_records
		WHERE ($1::date IS NULL OR record_date >= $1::date)
		  AND ($2::date IS NULL OR record_date <= $2::date)`

	MostSoldItemsSQL = `
		SELECT m.id, m.name, SUM(oi.quantity) AS total_quantity
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		JOIN orders o ON o.id = oi.order_id
		JOIN reservations r ON r.id = o.reservation_id
		WHERE ($1::date IS NULL OR r.reservation_date >= $1::date)
		  AND ($2::date IS NULL OR r.reservation_date <= $2::date)
		GROUP BY m.id, m.name
		ORDER BY total_quantity DESC, m.name ASC
		LIMIT $3`
)
