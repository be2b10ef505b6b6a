package mysql

// schema is applied statement by statement, so the DSN does not need
// multiStatements=true.
var schema = []string{
	`
CREATE TABLE IF NOT EXISTS hotels (
  id              CHAR(36)     NOT NULL PRIMARY KEY,
  name            VARCHAR(255) NOT NULL,
  description     TEXT         NOT NULL,
  stars           TINYINT      NOT NULL,
  city            VARCHAR(128) NOT NULL,
  country         VARCHAR(128) NOT NULL DEFAULT '',
  price_per_night DOUBLE       NOT NULL,
  amenities       JSON         NOT NULL,
  photos          JSON         NOT NULL,
  created_at      DATETIME(3)  NOT NULL,
  KEY idx_hotels_city (city),
  KEY idx_hotels_order (created_at, id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`
CREATE TABLE IF NOT EXISTS hotel_reservations (
  id        BIGINT   NOT NULL AUTO_INCREMENT PRIMARY KEY,
  hotel_id  CHAR(36) NOT NULL,
  check_in  DATE     NOT NULL,
  check_out DATE     NOT NULL,
  KEY idx_reservations_hotel (hotel_id, check_in),
  CONSTRAINT fk_reservations_hotel FOREIGN KEY (hotel_id) REFERENCES hotels (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`
CREATE TABLE IF NOT EXISTS hotel_reviews (
  id         BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
  hotel_id   CHAR(36)     NOT NULL,
  user_name  VARCHAR(255) NOT NULL,
  rating     TINYINT      NOT NULL,
  comment    TEXT         NULL,
  created_at DATETIME(3)  NOT NULL,
  KEY idx_reviews_hotel (hotel_id, id),
  CONSTRAINT fk_reviews_hotel FOREIGN KEY (hotel_id) REFERENCES hotels (id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

const insertHotelSQL = `
INSERT INTO hotels
  (id, name, description, stars, city, country, price_per_night, amenities, photos, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectHotelColumns = `
SELECT id, name, description, stars, city, country, price_per_night, amenities, photos, created_at
FROM hotels
`

// Row lock on the parent serializes every reservation write for one hotel.
const lockHotelSQL = `SELECT id FROM hotels WHERE id = ? FOR UPDATE`

const existsHotelSQL = `SELECT 1 FROM hotels WHERE id = ?`

// Half-open overlap: stored.check_in < new.check_out AND stored.check_out > new.check_in.
const countOverlapsSQL = `
SELECT COUNT(*)
FROM hotel_reservations
WHERE hotel_id = ? AND check_in < ? AND check_out > ?
`

const insertReservationSQL = `
INSERT INTO hotel_reservations (hotel_id, check_in, check_out) VALUES (?, ?, ?)
`

const insertReviewSQL = `
INSERT INTO hotel_reviews (hotel_id, user_name, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// CHILD LOADERS (the IN list is expanded in repo.go)
// -----------------------------------------------------------------------------

const selectReservationsPrefix = `
SELECT hotel_id, check_in, check_out
FROM hotel_reservations
WHERE hotel_id IN `

const selectReviewsPrefix = `
SELECT hotel_id, user_name, rating, comment, created_at
FROM hotel_reviews
WHERE hotel_id IN `
