package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/backchannel/pkg/chat"
)

const (
	AgentName       = "Trump"
	PlayerName      = "Zelensky"
	PlaceHolderText = "Speak as President Zelensky..."
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	sessionID    string
	transcript   []chat.Exchange
	state        chat.StateSnapshot
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool
	starting     bool
	statusLine   string

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type sessionStartedMsg struct {
	response *chat.StartResponse
	err      error
}

type interactionMsg struct {
	response *chat.InteractResponse
	err      error
}

type sessionEndedMsg struct{}

type copiedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")). // orange
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")) // green

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var titleCaser = cases.Title(language.English)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		starting:     true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.startSession(), textarea.Blink)
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			return m, m.copyTranscript()
		case tea.KeyEnter:
			if m.loading || m.starting || m.sessionID == "" {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.statusLine = ""

			m.transcript = append(m.transcript, chat.Exchange{
				Speaker: chat.SpeakerUser,
				Text:    input,
			})
			m.writeChatContent()

			return m, tea.Batch(m.sendInteraction(input), progressTick())
		}

	case sessionStartedMsg:
		m.starting = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.sessionID = msg.response.SessionID
			m.state = msg.response.State
			m.transcript = append(m.transcript, chat.Exchange{
				Speaker: chat.SpeakerAgent,
				Text:    msg.response.Initial,
			})
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case interactionMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeChatContent()
		} else {
			m.err = nil
			m.state = msg.response.State
			m.transcript = append(m.transcript, chat.Exchange{
				Speaker: chat.SpeakerAgent,
				Text:    msg.response.AIResponse,
			})
			m.statusLine = formatScoreChange(msg.response.ScoreChange)
			m.writeChatContent()
			m.metaViewport.SetContent(m.writeMetadata())
		}
		m.chatViewport.GotoBottom()

	case copiedMsg:
		if msg.err != nil {
			m.statusLine = "Copy failed: " + msg.err.Error()
		} else {
			m.statusLine = "Transcript copied to clipboard"
		}
		m.metaViewport.SetContent(m.writeMetadata())

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 10 {
		chatWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("BACKCHANNEL") + "\n\n")
	content.WriteString("A back-room call with the White House. Secure enough. Probably.\n")
	content.WriteString("Win the aid without conceding the investigation.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth)) + "\n\n")

	if m.starting {
		content.WriteString(loadingStyle.Render("Connecting the call..."))
		m.chatViewport.SetContent(content.String())
		return
	}

	for _, ex := range m.transcript {
		switch ex.Speaker {
		case chat.SpeakerAgent:
			prefix := agentStyle.Render(AgentName + ": ")
			content.WriteString(prefix + wordwrap.String(ex.Text, chatWidth-len(AgentName)-2) + "\n\n")
		case chat.SpeakerUser:
			prefix := userStyle.Render("You: ")
			content.WriteString(prefix + wordwrap.String(ex.Text, chatWidth-5) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("NEGOTIATION") + "\n\n")

	if m.sessionID != "" {
		content.WriteString("Session:\n")
		content.WriteString(shortID(m.sessionID) + "\n\n")
	}

	content.WriteString(fmt.Sprintf("Rapport: %d/100\n", m.state.Score))
	content.WriteString(renderGauge(m.state.Score) + "\n\n")
	content.WriteString(fmt.Sprintf("Aid Released: %d%%\n", m.state.AidReleased))
	content.WriteString(renderGauge(m.state.AidReleased) + "\n\n")

	content.WriteString("Concessions:\n")
	if len(m.state.Concessions) == 0 {
		content.WriteString("None yet\n")
	} else {
		for _, c := range m.state.Concessions {
			content.WriteString("• " + titleCaser.String(c) + "\n")
		}
	}
	content.WriteString("\n")

	if m.state.Outcome != "" {
		content.WriteString("Outcome:\n")
		content.WriteString(titleCaser.String(strings.ReplaceAll(m.state.Outcome, "_", " ")) + "\n\n")
	}

	if m.statusLine != "" {
		content.WriteString(m.statusLine + "\n\n")
	}

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Ctrl+Y: Copy transcript\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")

	return content.String()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• Ctrl+Y - Copy transcript to clipboard
• Ctrl+C - Quit

How to play:
• You are Zelensky, negotiating for military aid
• Flattery and media promises move the needle
• Some lines, once crossed, cannot be uncrossed
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()
	}

	m.textarea.Reset()
	return m, nil
}

func (m ConsoleUI) startSession() tea.Cmd {
	return func() tea.Msg {
		resp, err := startSession(m.client, m.config.APIBaseURL)
		return sessionStartedMsg{resp, err}
	}
}

func (m ConsoleUI) sendInteraction(text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendInteraction(m.client, m.config.APIBaseURL, m.sessionID, text)
		return interactionMsg{resp, err}
	}
}

func (m ConsoleUI) endSessionCmd() tea.Cmd {
	return func() tea.Msg {
		if m.sessionID != "" {
			_ = endSession(m.client, m.config.APIBaseURL, m.sessionID)
		}
		return sessionEndedMsg{}
	}
}

func (m ConsoleUI) copyTranscript() tea.Cmd {
	transcript := m.transcriptText()
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(transcript)}
	}
}

func (m ConsoleUI) transcriptText() string {
	var sb strings.Builder
	for _, ex := range m.transcript {
		name := PlayerName
		if ex.Speaker == chat.SpeakerAgent {
			name = AgentName
		}
		sb.WriteString(name + ": " + ex.Text + "\n")
	}
	return sb.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sessionEndedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.endSessionCmd()
		default:
			switch msg.String() {
			case "y", "Y":
				return m, m.endSessionCmd()
			case "n", "N", "esc":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("End the Call?"))
	content.WriteString("\n\n")
	content.WriteString("Hanging up ends the negotiation for good.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// renderGauge draws a small 20-cell bar for a 0-100 value.
func renderGauge(value int) string {
	if value < 0 {
		value = 0
	} else if value > 100 {
		value = 100
	}
	filled := value / 5
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
	return separatorStyle.Render(bar)
}

func formatScoreChange(change int) string {
	switch {
	case change > 0:
		return gainStyle.Render(fmt.Sprintf("Last move: +%d", change))
	case change < 0:
		return lossStyle.Render(fmt.Sprintf("Last move: %d", change))
	default:
		return promptStyle.Render("Last move: no change")
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
