package preview

const indexPage = `<!DOCTYPE html>
<html>
<head>
<title>veil preview</title>
<style>
body { font-family: sans-serif; background: #f4f4f4; margin: 2em; }
figure { display: inline-block; margin: 0 1em 1em 0; }
img { image-rendering: pixelated; border: 1px solid #999; background: #fff; max-width: 320px; }
figcaption { text-align: center; font-size: 0.9em; color: #555; }
</style>
</head>
<body>
<h1>veil preview</h1>
<p>
The secret share is pure noise on its own; stacking it with the cipher
share reveals the message. <button id="reroll">Reroll</button>
</p>
<figure><img id="prepared" src="/prepared.png"><figcaption>prepared message</figcaption></figure>
<figure><img id="secret" src="/secret.png"><figcaption>secret share</figcaption></figure>
<figure><img id="ciphered" src="/ciphered.png"><figcaption>cipher share</figcaption></figure>
<figure><img id="overlay" src="/overlay.png"><figcaption>overlay</figcaption></figure>
<script>
var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/api/client");
function refresh() {
	["secret", "ciphered", "overlay"].forEach(function(id) {
		var img = document.getElementById(id);
		img.src = "/" + id + ".png?t=" + Date.now();
	});
}
ws.onmessage = function(msg) {
	var event = JSON.parse(msg.data);
	if (event.event === "updated") {
		refresh();
	}
};
document.getElementById("reroll").onclick = function() {
	ws.send(JSON.stringify({action: "reroll"}));
};
</script>
</body>
</html>
`
