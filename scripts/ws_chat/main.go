package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/bloxcord/bloxcord-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:5158/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "username")
	userID := flag.Int64("userid", 0, "numeric user id")
	channel := flag.String("channel", "local-test", "channel to join")
	placeID := flag.Int64("place", 0, "place id of the joined channel")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ string, data any) {
		payload, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			log.Printf("marshal %s: %v", typ, marshalErr)
			return
		}
		if writeErr := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	send(proto.InboundTypeJoinChannel, proto.JoinChannelData{
		ChannelID: *channel,
		Username:  *user,
		UserID:    *userID,
		PlaceID:   *placeID,
	})

	fmt.Printf("Connected to %s as %s in channel %s\n", *addr, *user, *channel)
	fmt.Println("Type messages and press Enter to send.")
	fmt.Println("Commands: /dm <userId> <text>, /search <query>, /games, /groups. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, *user, *userID, *channel, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			fmt.Printf("!! error %s: %s\n", outbound.Error.Code, outbound.Error.Msg)
			continue
		}

		switch outbound.Event {
		case proto.EventReceiveMessage:
			var evt proto.MessageData
			if decode(outbound.Data, &evt) {
				fmt.Printf("[%s] %s: %s\n", evt.ChannelID, evt.Username, evt.Content)
			}
		case proto.EventReceivePrivateMessage:
			var evt proto.PrivateMessageData
			if decode(outbound.Data, &evt) {
				fmt.Printf("[dm] %s (%d): %s\n", evt.FromUsername, evt.FromUserID, evt.Content)
			}
		case proto.EventParticipantsChanged:
			var evt proto.ParticipantsChangedData
			if decode(outbound.Data, &evt) {
				names := make([]string, 0, len(evt.Participants))
				for _, p := range evt.Participants {
					names = append(names, p.Username)
				}
				fmt.Printf("[%s] participants: %s\n", evt.ChannelID, strings.Join(names, ", "))
			}
		case proto.EventTypingIndicator:
			var evt proto.TypingIndicatorData
			if decode(outbound.Data, &evt) && len(evt.Usernames) > 0 {
				fmt.Printf("[%s] typing: %s\n", evt.ChannelID, strings.Join(evt.Usernames, ", "))
			}
		case proto.EventChannelSnapshot:
			var evt proto.ChannelSnapshotData
			if decode(outbound.Data, &evt) {
				fmt.Printf("joined %s (%d participants, %d messages of history)\n",
					evt.ChannelID, len(evt.Participants), len(evt.History))
			}
		case proto.EventSearchResults:
			var results []proto.ParticipantData
			if decode(outbound.Data, &results) {
				for _, p := range results {
					fmt.Printf("  found %s (%d)\n", p.Username, p.UserID)
				}
			}
		case proto.EventGamesList:
			var games []proto.GameData
			if decode(outbound.Data, &games) {
				for _, g := range games {
					fmt.Printf("  %s (place %d): %d servers, %d players\n",
						g.Name, g.PlaceID, g.ServerCount, g.PlayerCount)
				}
			}
		case proto.EventUserGroups:
			var groups []proto.GroupChatData
			if decode(outbound.Data, &groups) {
				for _, g := range groups {
					fmt.Printf("  group %s: %d members, %d messages\n", g.GroupID, len(g.Participants), len(g.Messages))
				}
			}
		default:
			fmt.Printf("event=%s data=%s\n", outbound.Event, mustJSON(outbound.Data))
		}
	}
}

func writeLoop(ctx context.Context, user string, userID int64, channel string, send func(string, any)) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			switch {
			case strings.HasPrefix(text, "/dm "):
				parts := strings.SplitN(strings.TrimPrefix(text, "/dm "), " ", 2)
				if len(parts) != 2 {
					fmt.Println("usage: /dm <userId> <text>")
					continue
				}
				target, err := strconv.ParseInt(parts[0], 10, 64)
				if err != nil {
					fmt.Println("usage: /dm <userId> <text>")
					continue
				}
				send(proto.InboundTypeSendPrivateMessage, proto.SendPrivateMessageData{
					ToUserID:     target,
					Content:      parts[1],
					FromUsername: user,
					FromUserID:   userID,
				})
			case strings.HasPrefix(text, "/search "):
				send(proto.InboundTypeSearchUsers, proto.SearchUsersData{
					Query: strings.TrimPrefix(text, "/search "),
				})
			case text == "/games":
				send(proto.InboundTypeGetGames, struct{}{})
			case text == "/groups":
				send(proto.InboundTypeGetGroups, struct{}{})
			default:
				send(proto.InboundTypeSendMessage, proto.SendMessageData{
					ChannelID: channel,
					Username:  user,
					Content:   text,
					UserID:    userID,
				})
			}
		}
	}
}

func decode(data any, out any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("marshal outbound data: %v", err)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("unmarshal event: %v", err)
		return false
	}
	return true
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
