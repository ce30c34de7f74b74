package models

import "time"

// ReferralReward is the TEX amount credited to a referrer per signup.
const ReferralReward = 5

type WaitlistEntry struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	ReferralCode     string    `json:"referral_code"`
	ReferredBy       *string   `json:"referred_by,omitempty"`
	ReferralCount    int       `json:"referral_count"`
	RewardPendingTex int       `json:"reward_pending_tex"`
	CreatedAt        time.Time `json:"created_at"`
}
