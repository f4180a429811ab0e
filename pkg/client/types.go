package client

import "time"

// Wire types mirroring the backend's JSON responses.

type User struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatarUrl"`
}

type Trip struct {
	ID             uint      `json:"id"`
	DriverID       uint      `json:"driverId"`
	Driver         *User     `json:"driver,omitempty"`
	FromCity       string    `json:"fromCity"`
	ToCity         string    `json:"toCity"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"`
	PricePerSeat   float64   `json:"pricePerSeat"`
	TotalSeats     int       `json:"totalSeats"`
	RemainingSeats int       `json:"remainingSeats"`
	Note           string    `json:"note"`
	CarModel       string    `json:"carModel"`
	CarColor       string    `json:"carColor"`
	CarNumber      string    `json:"carNumber"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Booking struct {
	ID        uint      `json:"id"`
	TripID    uint      `json:"tripId"`
	Trip      *Trip     `json:"trip,omitempty"`
	UserID    uint      `json:"userId"`
	User      *User     `json:"user,omitempty"`
	Seats     int       `json:"seats"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Wallet struct {
	ID      uint    `json:"id"`
	UserID  uint    `json:"userId"`
	Balance float64 `json:"balance"`
}

type Transaction struct {
	ID          uint      `json:"id"`
	WalletID    uint      `json:"walletId"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ChatMessage struct {
	ID         uint      `json:"id"`
	TripID     uint      `json:"tripId"`
	SenderID   uint      `json:"senderId"`
	Sender     *User     `json:"sender,omitempty"`
	ReceiverID uint      `json:"receiverId"`
	Body       string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Conversation struct {
	TripID      uint        `json:"tripId"`
	PeerID      uint        `json:"peerId"`
	LastMessage ChatMessage `json:"lastMessage"`
	Unread      int         `json:"unread"`
}

type Notification struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type Rating struct {
	ID         uint      `json:"id"`
	TripID     uint      `json:"tripId"`
	FromUserID uint      `json:"fromUserId"`
	FromUser   *User     `json:"fromUser,omitempty"`
	ToUserID   uint      `json:"toUserId"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Setting struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"userId"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

type SettlementResult struct {
	TripID         uint    `json:"tripId"`
	CommissionRate float64 `json:"commissionRate"`
	Passengers     int     `json:"passengers"`
	TotalFees      float64 `json:"totalFees"`
}
