package mail

var Render = render
