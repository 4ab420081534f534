package transfer

// Twitter v2 API wire types, limited to the fields this service reads.

type TweetRequest struct {
	Text string `json:"text"`
}

type TweetResponse struct {
	Data TweetData `json:"data"`
}

type TweetData struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type TweetLookupResponse struct {
	Data struct {
		ID            string        `json:"id"`
		PublicMetrics PublicMetrics `json:"public_metrics"`
	} `json:"data"`
}

type PublicMetrics struct {
	LikeCount    int `json:"like_count"`
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
}

type TwitterErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

type TwitterUserResponse struct {
	Data TwitterUser `json:"data"`
}

type TwitterUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// PublishedTweet is what the publisher hands back to the workflow.
type PublishedTweet struct {
	ID   string
	Text string
}

type TweetMetrics struct {
	Likes    int
	Retweets int
	Replies  int
}
